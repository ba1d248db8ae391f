package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/groupboard/internal/protocol"
)

// printGroupList renders the (count, gid name lastMID ...) tokens shared
// by the full listing and the per-user listing.
func (a *App) printGroupList(tokens []string) error {
	if len(tokens) == 0 {
		fmt.Fprintln(a.out, "unexpected reply from server")
		return errAborted
	}

	n, err := strconv.Atoi(tokens[0])
	if err != nil || n < 0 || len(tokens) != 1+3*n {
		fmt.Fprintln(a.out, "unexpected reply from server")
		return errAborted
	}

	if n == 0 {
		fmt.Fprintln(a.out, "no groups")
		return nil
	}

	for i := 0; i < n; i++ {
		gid, name, last := tokens[1+3*i], tokens[2+3*i], tokens[3+3*i]
		fmt.Fprintf(a.out, "%s %s (last message %s)\n", gid, name, last)
	}
	return nil
}

func (a *App) Groups(ctx context.Context) error {
	tokens, err := a.control(ctx, protocol.VerbListGroups)
	if err != nil {
		return err
	}
	return a.printGroupList(tokens)
}

func (a *App) MyGroups(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	tokens, err := a.control(ctx, protocol.VerbMyGroups, a.uid)
	if err != nil {
		return err
	}
	return a.printGroupList(tokens)
}

func (a *App) Subscribe(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	gid, err := GetSimpleText(a.reader, "Group id (2 digits, 00 to create)", a.out)
	if err != nil {
		return err
	}
	if !protocol.IsGID(gid) && gid != protocol.CreateGroupID {
		fmt.Fprintln(a.out, "invalid group id")
		return errAborted
	}

	name, err := GetSimpleText(a.reader, "Group name", a.out)
	if err != nil {
		return err
	}
	if !protocol.IsGroupName(name) {
		fmt.Fprintln(a.out, "invalid group name")
		return errAborted
	}

	tokens, err := a.control(ctx, protocol.VerbSubscribe, a.uid, gid, name)
	if err != nil {
		return err
	}

	switch tokens[0] {
	case protocol.StatusOK:
		fmt.Fprintln(a.out, "subscribed to group", gid)
	case protocol.StatusNew:
		fmt.Fprintf(a.out, "created group %q and subscribed\n", name)
	case protocol.StatusErrUser:
		fmt.Fprintln(a.out, "invalid user id")
	case protocol.StatusErrGroup:
		fmt.Fprintln(a.out, "no such group")
	case protocol.StatusErrGName:
		fmt.Fprintln(a.out, "group name does not match")
	case protocol.StatusErrFull:
		fmt.Fprintln(a.out, "no more groups can be created")
	default:
		fmt.Fprintln(a.out, "subscription refused")
	}
	return nil
}

func (a *App) Unsubscribe(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	gid, err := GetSimpleText(a.reader, "Group id (2 digits)", a.out)
	if err != nil {
		return err
	}
	if !protocol.IsGID(gid) {
		fmt.Fprintln(a.out, "invalid group id")
		return errAborted
	}

	tokens, err := a.control(ctx, protocol.VerbUnsubscribe, a.uid, gid)
	if err != nil {
		return err
	}

	switch tokens[0] {
	case protocol.StatusOK:
		fmt.Fprintln(a.out, "unsubscribed from group", gid)
	case protocol.StatusErrUser:
		fmt.Fprintln(a.out, "invalid user id")
	case protocol.StatusErrGroup:
		fmt.Fprintln(a.out, "no such group")
	default:
		fmt.Fprintln(a.out, "unsubscription refused")
	}
	return nil
}
