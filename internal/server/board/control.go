package board

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/groupboard/internal/protocol"
	"github.com/dmitrijs2005/groupboard/internal/server/store"
)

// Control-plane verbs: short request/reply pairs carried over UDP.

func (h *Handler) handleRegister(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 2 || !protocol.IsUID(dec.Args[0]) || !protocol.IsPassword(dec.Args[1]) {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	err := h.store.RegisterUser(dec.Args[0], dec.Args[1])
	switch {
	case err == nil:
		return reply(dec.Verb, protocol.StatusOK)
	case errors.Is(err, store.ErrDuplicateUser):
		return reply(dec.Verb, protocol.StatusDuplicate)
	default:
		return reply(dec.Verb, protocol.StatusNOK)
	}
}

func (h *Handler) handleUnregister(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 2 || !protocol.IsUID(dec.Args[0]) || !protocol.IsPassword(dec.Args[1]) {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	if err := h.store.UnregisterUser(dec.Args[0], dec.Args[1]); err != nil {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	return reply(dec.Verb, protocol.StatusOK)
}

func (h *Handler) handleLogin(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 2 || !protocol.IsUID(dec.Args[0]) || !protocol.IsPassword(dec.Args[1]) {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	if err := h.store.Login(dec.Args[0], dec.Args[1]); err != nil {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	return reply(dec.Verb, protocol.StatusOK)
}

func (h *Handler) handleLogout(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 2 || !protocol.IsUID(dec.Args[0]) || !protocol.IsPassword(dec.Args[1]) {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	if err := h.store.Logout(dec.Args[0], dec.Args[1]); err != nil {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	return reply(dec.Verb, protocol.StatusOK)
}

// handleListGroups returns the group count followed by (gid, name, last mid)
// triples. An empty board replies "RGL 0".
func (h *Handler) handleListGroups(ctx context.Context, req *Request, dec protocol.Request) Response {
	return reply(dec.Verb, groupListTokens(h.store.Groups())...)
}

func (h *Handler) handleSubscribe(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 3 || !protocol.IsUID(dec.Args[0]) {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	uid, gid, gname := dec.Args[0], dec.Args[1], dec.Args[2]

	if err := h.store.UserActive(uid); err != nil {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	if !protocol.IsGID(gid) {
		return reply(dec.Verb, protocol.StatusErrGroup)
	}
	if !protocol.IsGroupName(gname) {
		return reply(dec.Verb, protocol.StatusErrGName)
	}

	if gid == protocol.CreateGroupID {
		newGID, err := h.store.CreateGroup(gname)
		if err != nil {
			return reply(dec.Verb, protocol.StatusErrFull)
		}
		if err := h.store.Subscribe(uid, newGID); err != nil {
			return reply(dec.Verb, protocol.StatusErrUser)
		}
		return reply(dec.Verb, protocol.StatusNew)
	}

	g, err := h.store.Group(gid)
	if err != nil {
		return reply(dec.Verb, protocol.StatusErrGroup)
	}
	if g.Name != gname {
		return reply(dec.Verb, protocol.StatusErrGName)
	}
	// Subscribing twice is a no-op; both paths answer OK.
	if err := h.store.Subscribe(uid, gid); err != nil {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	return reply(dec.Verb, protocol.StatusOK)
}

func (h *Handler) handleUnsubscribe(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 2 || !protocol.IsUID(dec.Args[0]) {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	uid, gid := dec.Args[0], dec.Args[1]
	if !h.store.UserExists(uid) {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	if !protocol.IsGID(gid) {
		return reply(dec.Verb, protocol.StatusErrGroup)
	}
	if err := h.store.Unsubscribe(uid, gid); err != nil {
		return reply(dec.Verb, protocol.StatusErrGroup)
	}
	return reply(dec.Verb, protocol.StatusOK)
}

func (h *Handler) handleMyGroups(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 1 || !protocol.IsUID(dec.Args[0]) {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	uid := dec.Args[0]
	if err := h.store.UserActive(uid); err != nil {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	groups, err := h.store.UserGroups(uid)
	if err != nil {
		return reply(dec.Verb, protocol.StatusErrUser)
	}
	return reply(dec.Verb, groupListTokens(groups)...)
}

func groupListTokens(groups []store.GroupInfo) []string {
	tokens := make([]string, 0, 1+3*len(groups))
	tokens = append(tokens, strconv.Itoa(len(groups)))
	for _, g := range groups {
		tokens = append(tokens, g.ID, g.Name, g.LastMID)
	}
	return tokens
}
