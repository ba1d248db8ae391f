package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/groupboard/internal/protocol"
)

func (a *App) askCredentials() (uid, password string, err error) {
	uid, err = GetSimpleText(a.reader, "User id (5 digits)", a.out)
	if err != nil {
		return "", "", err
	}
	if !protocol.IsUID(uid) || uid == protocol.ReservedUID {
		fmt.Fprintln(a.out, "invalid user id")
		return "", "", errAborted
	}

	password, err = GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	if !protocol.IsPassword(password) {
		fmt.Fprintln(a.out, "invalid password")
		return "", "", errAborted
	}
	return uid, password, nil
}

func (a *App) Register(ctx context.Context) error {
	uid, password, err := a.askCredentials()
	if err != nil {
		return err
	}

	tokens, err := a.control(ctx, protocol.VerbRegister, uid, password)
	if err != nil {
		return err
	}

	switch tokens[0] {
	case protocol.StatusOK:
		fmt.Fprintln(a.out, "registered user", uid)
	case protocol.StatusDuplicate:
		fmt.Fprintln(a.out, "user id already taken")
	default:
		fmt.Fprintln(a.out, "registration refused")
	}
	return nil
}

// Unregister removes an account. It works for any account the user can
// name the password of, logged in or not; removing the account currently
// logged in also drops the local session.
func (a *App) Unregister(ctx context.Context) error {
	uid, password, err := a.askCredentials()
	if err != nil {
		return err
	}

	tokens, err := a.control(ctx, protocol.VerbUnregister, uid, password)
	if err != nil {
		return err
	}

	if tokens[0] != protocol.StatusOK {
		fmt.Fprintln(a.out, "unregistration refused")
		return nil
	}

	fmt.Fprintln(a.out, "unregistered user", uid)
	if uid == a.uid {
		a.uid, a.password = "", ""
	}
	return nil
}

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "already logged in as", a.uid, "- logout first")
		return errAborted
	}

	uid, password, err := a.askCredentials()
	if err != nil {
		return err
	}

	tokens, err := a.control(ctx, protocol.VerbLogin, uid, password)
	if err != nil {
		return err
	}

	if tokens[0] != protocol.StatusOK {
		fmt.Fprintln(a.out, "login refused")
		return nil
	}

	a.uid, a.password = uid, password
	fmt.Fprintln(a.out, "logged in as", uid)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	tokens, err := a.control(ctx, protocol.VerbLogout, a.uid, a.password)
	if err != nil {
		return err
	}

	if tokens[0] != protocol.StatusOK {
		fmt.Fprintln(a.out, "logout refused")
		return nil
	}

	fmt.Fprintln(a.out, "logged out", a.uid)
	a.uid, a.password = "", ""
	return nil
}
