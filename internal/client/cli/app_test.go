package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groupboard/internal/client/config"
)

// fakeControl replays scripted replies and records the requests it saw.
type fakeControl struct {
	replies  []string
	requests []string
}

func (f *fakeControl) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	f.requests = append(f.requests, string(request))
	if len(f.replies) == 0 {
		return []byte("ERR\n"), nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return []byte(r), nil
}

// fakeBulk captures one bulk request and replays a scripted reply or stream.
type fakeBulk struct {
	reply   string
	stream  string
	header  string
	payload bytes.Buffer
}

func (f *fakeBulk) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	f.header = string(request)
	return []byte(f.reply), nil
}

func (f *fakeBulk) Post(ctx context.Context, header []byte, payload io.Reader, size int64) ([]byte, error) {
	f.header = string(header)
	if payload != nil {
		if _, err := io.CopyN(&f.payload, payload, size); err != nil {
			return nil, err
		}
	}
	return []byte(f.reply), nil
}

func (f *fakeBulk) Retrieve(ctx context.Context, header []byte, fn func(r *bufio.Reader) error) error {
	f.header = string(header)
	return fn(bufio.NewReader(strings.NewReader(f.stream)))
}

func newTestApp(t *testing.T, input string, udp *fakeControl, tcp *fakeBulk) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{DownloadDir: filepath.Join(t.TempDir(), "downloads")}
	out := &bytes.Buffer{}
	return &App{
		config: cfg,
		udp:    udp,
		tcp:    tcp,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func TestRegister(t *testing.T) {
	stubPassword(t, "pass1234")

	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"accepted", "RRG OK\n", "registered user 12345"},
		{"duplicate", "RRG DUP\n", "user id already taken"},
		{"refused", "RRG NOK\n", "registration refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			udp := &fakeControl{replies: []string{tt.reply}}
			a, out := newTestApp(t, "12345\n", udp, nil)

			require.NoError(t, a.Register(context.Background()))
			require.Len(t, udp.requests, 1)
			assert.Equal(t, "REG 12345 pass1234\n", udp.requests[0])
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRegister_InvalidInputNotSent(t *testing.T) {
	stubPassword(t, "pass1234")

	tests := []struct {
		name  string
		input string
		pw    string
	}{
		{"short uid", "123\n", "pass1234"},
		{"reserved uid", "00000\n", "pass1234"},
		{"bad password", "12345\n", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubPassword(t, tt.pw)
			udp := &fakeControl{}
			a, _ := newTestApp(t, tt.input, udp, nil)

			err := a.Register(context.Background())
			assert.ErrorIs(t, err, errAborted)
			assert.Empty(t, udp.requests)
		})
	}
}

func TestLoginLogout(t *testing.T) {
	stubPassword(t, "pass1234")

	udp := &fakeControl{replies: []string{"RLO OK\n", "ROU OK\n"}}
	a, out := newTestApp(t, "12345\n", udp, nil)

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "12345", a.uid)
	assert.Contains(t, out.String(), "logged in as 12345")

	// A second login without logging out is rejected locally.
	assert.ErrorIs(t, a.Login(context.Background()), errAborted)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "OUT 12345 pass1234\n", udp.requests[1])
}

func TestLogin_Refused(t *testing.T) {
	stubPassword(t, "pass1234")

	udp := &fakeControl{replies: []string{"RLO NOK\n"}}
	a, out := newTestApp(t, "12345\n", udp, nil)

	require.NoError(t, a.Login(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "login refused")
}

func TestLogout_NotLoggedIn(t *testing.T) {
	a, out := newTestApp(t, "", &fakeControl{}, nil)
	assert.ErrorIs(t, a.Logout(context.Background()), errAborted)
	assert.Contains(t, out.String(), "not logged in")
}

func TestUnregister_DropsCurrentSession(t *testing.T) {
	stubPassword(t, "pass1234")

	udp := &fakeControl{replies: []string{"RUN OK\n"}}
	a, out := newTestApp(t, "12345\n", udp, nil)
	a.uid, a.password = "12345", "pass1234"

	require.NoError(t, a.Unregister(context.Background()))
	assert.Equal(t, "UNR 12345 pass1234\n", udp.requests[0])
	assert.Contains(t, out.String(), "unregistered user 12345")
	assert.False(t, a.isLoggedIn())
}

func TestGroups(t *testing.T) {
	udp := &fakeControl{replies: []string{"RGL 2 01 friends 0005 02 work 0000\n"}}
	a, out := newTestApp(t, "", udp, nil)

	require.NoError(t, a.Groups(context.Background()))
	assert.Equal(t, "GLS\n", udp.requests[0])
	assert.Contains(t, out.String(), "01 friends (last message 0005)")
	assert.Contains(t, out.String(), "02 work (last message 0000)")
}

func TestGroups_Empty(t *testing.T) {
	udp := &fakeControl{replies: []string{"RGL 0\n"}}
	a, out := newTestApp(t, "", udp, nil)

	require.NoError(t, a.Groups(context.Background()))
	assert.Contains(t, out.String(), "no groups")
}

func TestGroups_BareErrReply(t *testing.T) {
	udp := &fakeControl{replies: []string{"ERR\n"}}
	a, out := newTestApp(t, "", udp, nil)

	assert.ErrorIs(t, a.Groups(context.Background()), errAborted)
	assert.Contains(t, out.String(), "unexpected reply")
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name  string
		input string
		reply string
		req   string
		want  string
	}{
		{"existing group", "01\nfriends\n", "RGS OK\n", "GSR 12345 01 friends\n", "subscribed to group 01"},
		{"create group", "00\nhiking\n", "RGS NEW\n", "GSR 12345 00 hiking\n", `created group "hiking"`},
		{"name mismatch", "01\nwrong\n", "RGS E_GNAME\n", "GSR 12345 01 wrong\n", "group name does not match"},
		{"no such group", "44\nfriends\n", "RGS E_GRP\n", "GSR 12345 44 friends\n", "no such group"},
		{"groups full", "00\nonemore\n", "RGS E_FULL\n", "GSR 12345 00 onemore\n", "no more groups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			udp := &fakeControl{replies: []string{tt.reply}}
			a, out := newTestApp(t, tt.input, udp, nil)
			a.uid, a.password = "12345", "pass1234"

			require.NoError(t, a.Subscribe(context.Background()))
			assert.Equal(t, tt.req, udp.requests[0])
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestSubscribe_RequiresLogin(t *testing.T) {
	a, out := newTestApp(t, "01\nfriends\n", &fakeControl{}, nil)
	assert.ErrorIs(t, a.Subscribe(context.Background()), errAborted)
	assert.Contains(t, out.String(), "not logged in")
}

func TestUnsubscribe(t *testing.T) {
	udp := &fakeControl{replies: []string{"RGU OK\n"}}
	a, out := newTestApp(t, "01\n", udp, nil)
	a.uid = "12345"

	require.NoError(t, a.Unsubscribe(context.Background()))
	assert.Equal(t, "GUR 12345 01\n", udp.requests[0])
	assert.Contains(t, out.String(), "unsubscribed from group 01")
}

func TestMyGroups(t *testing.T) {
	udp := &fakeControl{replies: []string{"RGM 1 02 work 0003\n"}}
	a, out := newTestApp(t, "", udp, nil)
	a.uid = "12345"

	require.NoError(t, a.MyGroups(context.Background()))
	assert.Equal(t, "GLM 12345\n", udp.requests[0])
	assert.Contains(t, out.String(), "02 work (last message 0003)")
}

func TestUserList(t *testing.T) {
	tcp := &fakeBulk{reply: "RUL OK friends 11111 22222\n"}
	a, out := newTestApp(t, "01\n", &fakeControl{}, tcp)
	a.uid = "12345"

	require.NoError(t, a.UserList(context.Background()))
	assert.Equal(t, "ULS 01\n", tcp.header)
	assert.Contains(t, out.String(), "subscribers of friends: 11111 22222")
}

func TestUserList_UnknownGroup(t *testing.T) {
	tcp := &fakeBulk{reply: "RUL NOK\n"}
	a, out := newTestApp(t, "44\n", &fakeControl{}, tcp)
	a.uid = "12345"

	require.NoError(t, a.UserList(context.Background()))
	assert.Contains(t, out.String(), "no such group")
}

func TestPost_TextOnly(t *testing.T) {
	tcp := &fakeBulk{reply: "RPT 0001\n"}
	a, out := newTestApp(t, "01\nhello\n\n", &fakeControl{}, tcp)
	a.uid = "12345"

	require.NoError(t, a.Post(context.Background()))
	assert.Equal(t, "PST 12345 01 5 \"hello\"\n", tcp.header)
	assert.Contains(t, out.String(), "posted message 0001")
	assert.Zero(t, tcp.payload.Len())
}

func TestPost_WithAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("DATA"), 0o600))

	tcp := &fakeBulk{reply: "RPT 0002\n"}
	a, out := newTestApp(t, "01\nsee file\n"+path+"\n", &fakeControl{}, tcp)
	a.uid = "12345"

	require.NoError(t, a.Post(context.Background()))
	assert.Equal(t, "PST 12345 01 8 \"see file\" notes.txt 4\n", tcp.header)
	assert.Equal(t, "DATA", tcp.payload.String())
	assert.Contains(t, out.String(), "posted message 0002")
}

func TestPost_InvalidText(t *testing.T) {
	a, out := newTestApp(t, "01\n\n", &fakeControl{}, &fakeBulk{})
	a.uid = "12345"

	assert.ErrorIs(t, a.Post(context.Background()), errAborted)
	assert.Contains(t, out.String(), "invalid message text")
}

func TestRetrieve(t *testing.T) {
	tcp := &fakeBulk{stream: "RRT OK 2\n" +
		"0003 22222 5 \"hello\"\n" +
		"/ notes.txt 4\nDATA" +
		"0004 11111 2 \"ok\"\n"}
	a, out := newTestApp(t, "01\n3\n", &fakeControl{}, tcp)
	a.uid = "12345"

	require.NoError(t, a.Retrieve(context.Background()))
	assert.Equal(t, "RTV 12345 01 0003\n", tcp.header)
	assert.Contains(t, out.String(), "retrieving 2 message(s)")
	assert.Contains(t, out.String(), `0003 22222: "hello"`)
	assert.Contains(t, out.String(), `0004 11111: "ok"`)
	assert.Contains(t, out.String(), "saved attachment")

	saved, err := os.ReadFile(filepath.Join(a.config.DownloadDir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "DATA", string(saved))
}

func TestRetrieve_NoMessages(t *testing.T) {
	tcp := &fakeBulk{stream: "RRT EOF\n"}
	a, out := newTestApp(t, "01\n1\n", &fakeControl{}, tcp)
	a.uid = "12345"

	require.NoError(t, a.Retrieve(context.Background()))
	assert.Contains(t, out.String(), "no messages to retrieve")
}

func TestRetrieve_InvalidStart(t *testing.T) {
	a, out := newTestApp(t, "01\n0\n", &fakeControl{}, &fakeBulk{})
	a.uid = "12345"

	assert.ErrorIs(t, a.Retrieve(context.Background()), errAborted)
	assert.Contains(t, out.String(), "invalid message number")
}
