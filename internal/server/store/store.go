// Package store holds the server's in-memory entities: users, groups and
// the messages posted to them. The store is the canonical owner of all
// three; groups reference their subscribers by user id only, and every
// pointer-like access goes through a lookup, so removing a user can never
// leave a dangling reference.
//
// The store performs no locking. The transport multiplexer dispatches one
// request to completion at a time from a single goroutine, which gives all
// mutations a total order; any caller that introduces concurrency must
// serialize access itself.
package store

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/groupboard/internal/protocol"
)

// Message is a single posted message. Messages are append-only: once
// created they are never mutated or deleted.
type Message struct {
	ID       string
	Author   string
	Text     string
	FileName string
	FileSize int64
}

// HasFile reports whether the message carries an attachment.
func (m *Message) HasFile() bool { return m.FileName != "" }

// GroupInfo is a read-only snapshot of a group used by listings.
type GroupInfo struct {
	ID      string
	Name    string
	LastMID string
}

type user struct {
	id       string
	password string
	loggedIn bool
	groups   map[string]struct{} // subscribed group ids
}

type group struct {
	id          string
	name        string
	mid         int // last assigned message number, monotonically increasing
	subscribers map[string]struct{} // subscribed user ids
	messages    []Message
}

func (g *group) info() GroupInfo {
	return GroupInfo{ID: g.id, Name: g.name, LastMID: fmt.Sprintf("%04d", g.mid)}
}

// Store is the in-memory entity store.
type Store struct {
	users  map[string]*user
	groups map[string]*group
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:  make(map[string]*user),
		groups: make(map[string]*group),
	}
}

// RegisterUser creates a new user. The reserved id "00000" is never
// accepted, the user population is capped, and a duplicate id fails without
// touching the stored password.
func (s *Store) RegisterUser(uid, password string) error {
	if uid == protocol.ReservedUID {
		return ErrReservedUID
	}
	if len(s.users) >= protocol.MaxUsers {
		return ErrUserLimit
	}
	if _, ok := s.users[uid]; ok {
		return ErrDuplicateUser
	}
	s.users[uid] = &user{id: uid, password: password, groups: make(map[string]struct{})}
	return nil
}

// UnregisterUser removes a user and cascades the removal through every
// group the user was subscribed to. Login state is irrelevant: a logged-in
// user can unregister and simply ceases to exist.
func (s *Store) UnregisterUser(uid, password string) error {
	u, ok := s.users[uid]
	if !ok {
		return ErrUnknownUser
	}
	if u.password != password {
		return ErrWrongPassword
	}
	for gid := range u.groups {
		if g, ok := s.groups[gid]; ok {
			delete(g.subscribers, uid)
		}
	}
	delete(s.users, uid)
	return nil
}

// Login marks a user as logged in. Logging in twice without an intervening
// logout fails.
func (s *Store) Login(uid, password string) error {
	u, ok := s.users[uid]
	if !ok {
		return ErrUnknownUser
	}
	if u.loggedIn {
		return ErrAlreadyLoggedIn
	}
	if u.password != password {
		return ErrWrongPassword
	}
	u.loggedIn = true
	return nil
}

// Logout clears the logged-in flag.
func (s *Store) Logout(uid, password string) error {
	u, ok := s.users[uid]
	if !ok {
		return ErrUnknownUser
	}
	if !u.loggedIn {
		return ErrNotLoggedIn
	}
	if u.password != password {
		return ErrWrongPassword
	}
	u.loggedIn = false
	return nil
}

// UserExists reports whether uid is registered.
func (s *Store) UserExists(uid string) bool {
	_, ok := s.users[uid]
	return ok
}

// UserActive returns nil when uid is registered and logged in.
func (s *Store) UserActive(uid string) error {
	u, ok := s.users[uid]
	if !ok {
		return ErrUnknownUser
	}
	if !u.loggedIn {
		return ErrNotLoggedIn
	}
	return nil
}

// Groups returns a snapshot of every group, ordered by group id.
func (s *Store) Groups() []GroupInfo {
	out := make([]GroupInfo, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Group returns a snapshot of one group. The reserved id "00" never
// resolves to a group.
func (s *Store) Group(gid string) (GroupInfo, error) {
	g, ok := s.groups[gid]
	if !ok {
		return GroupInfo{}, ErrUnknownGroup
	}
	return g.info(), nil
}

// CreateGroup creates a new group with the next free two-digit id. Groups
// are never deleted, so ids are assigned densely starting at "01".
func (s *Store) CreateGroup(name string) (string, error) {
	if len(s.groups) >= protocol.MaxGroups {
		return "", ErrGroupLimit
	}
	gid := fmt.Sprintf("%02d", len(s.groups)+1)
	s.groups[gid] = &group{id: gid, name: name, subscribers: make(map[string]struct{})}
	return gid, nil
}

// Subscribe adds uid to gid's subscriber set and gid to the user's
// membership set in one step. Subscribing twice is a no-op.
func (s *Store) Subscribe(uid, gid string) error {
	u, ok := s.users[uid]
	if !ok {
		return ErrUnknownUser
	}
	g, ok := s.groups[gid]
	if !ok {
		return ErrUnknownGroup
	}
	g.subscribers[uid] = struct{}{}
	u.groups[gid] = struct{}{}
	return nil
}

// Unsubscribe removes the membership from both sides. Unsubscribing from a
// group the user never joined is a no-op.
func (s *Store) Unsubscribe(uid, gid string) error {
	u, ok := s.users[uid]
	if !ok {
		return ErrUnknownUser
	}
	g, ok := s.groups[gid]
	if !ok {
		return ErrUnknownGroup
	}
	delete(g.subscribers, uid)
	delete(u.groups, gid)
	return nil
}

// UserGroups returns snapshots of the groups uid is subscribed to, ordered
// by group id.
func (s *Store) UserGroups(uid string) ([]GroupInfo, error) {
	u, ok := s.users[uid]
	if !ok {
		return nil, ErrUnknownUser
	}
	out := make([]GroupInfo, 0, len(u.groups))
	for gid := range u.groups {
		if g, ok := s.groups[gid]; ok {
			out = append(out, g.info())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GroupUsers returns the group name and its subscriber ids, ordered by
// user id.
func (s *Store) GroupUsers(gid string) (string, []string, error) {
	g, ok := s.groups[gid]
	if !ok {
		return "", nil, ErrUnknownGroup
	}
	uids := make([]string, 0, len(g.subscribers))
	for uid := range g.subscribers {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return g.name, uids, nil
}

// PostMessage appends a message to a group and returns the new four-digit
// message id. Ids within a group are contiguous, starting at "0001".
func (s *Store) PostMessage(uid, gid, text, fileName string, fileSize int64) (string, error) {
	if _, ok := s.users[uid]; !ok {
		return "", ErrUnknownUser
	}
	g, ok := s.groups[gid]
	if !ok {
		return "", ErrUnknownGroup
	}
	if g.mid >= protocol.MaxMessages {
		return "", ErrMessageLimit
	}
	g.mid++
	mid := fmt.Sprintf("%04d", g.mid)
	g.messages = append(g.messages, Message{
		ID:       mid,
		Author:   uid,
		Text:     text,
		FileName: fileName,
		FileSize: fileSize,
	})
	return mid, nil
}

// Retrieve returns up to RetrieveBatchSize messages with ids in
// [start, start+19], in ascending order. An empty result means no message
// with id >= start exists.
func (s *Store) Retrieve(gid string, start int) ([]Message, error) {
	g, ok := s.groups[gid]
	if !ok {
		return nil, ErrUnknownGroup
	}
	if start < 1 {
		start = 1
	}
	if start > len(g.messages) {
		return nil, nil
	}
	end := start + protocol.RetrieveBatchSize - 1
	if end > len(g.messages) {
		end = len(g.messages)
	}
	out := make([]Message, end-start+1)
	copy(out, g.messages[start-1:end])
	return out, nil
}
