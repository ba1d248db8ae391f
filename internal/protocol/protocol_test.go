package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	req, err := Decode([]byte("REG 12345 abcdefgh\n"))
	require.NoError(t, err)
	assert.Equal(t, VerbRegister, req.Verb)
	assert.Equal(t, []string{"12345", "abcdefgh"}, req.Args)
	assert.Equal(t, "REG 12345 abcdefgh", req.Raw)
}

func TestDecode_NoArgs(t *testing.T) {
	req, err := Decode([]byte("GLS\n"))
	require.NoError(t, err)
	assert.Equal(t, VerbListGroups, req.Verb)
	assert.Empty(t, req.Args)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode([]byte("\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "verb", perr.Field)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "RRG OK\n", string(Encode("RRG", "OK")))
	assert.Equal(t, "ERR\n", string(Encode(ReplyError)))
	assert.Equal(t, "RGL 2 01 chat 0003 02 misc 0000\n",
		string(Encode("RGL", "2", "01", "chat", "0003", "02", "misc", "0000")))
}

func TestReplyVerb(t *testing.T) {
	tests := []struct {
		req  Verb
		want string
	}{
		{VerbRegister, "RRG"},
		{VerbUnregister, "RUN"},
		{VerbLogin, "RLO"},
		{VerbLogout, "ROU"},
		{VerbListGroups, "RGL"},
		{VerbSubscribe, "RGS"},
		{VerbUnsubscribe, "RGU"},
		{VerbMyGroups, "RGM"},
		{VerbUserList, "RUL"},
		{VerbPost, "RPT"},
		{VerbRetrieve, "RRT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReplyVerb(tt.req))
	}
	assert.Equal(t, ReplyError, ReplyVerb(Verb("XXX")))
	assert.False(t, Known(Verb("XXX")))
}

func TestValidators(t *testing.T) {
	assert.True(t, IsUID("12345"))
	assert.True(t, IsUID("00000")) // well-formed; rejection happens at REG
	assert.False(t, IsUID("1234"))
	assert.False(t, IsUID("123456"))
	assert.False(t, IsUID("12a45"))

	assert.True(t, IsGID("01"))
	assert.False(t, IsGID("1"))
	assert.False(t, IsGID("0a"))

	assert.True(t, IsMID("0001"))
	assert.False(t, IsMID("001"))

	assert.True(t, IsPassword("abcdefg1"))
	assert.False(t, IsPassword("abc"))
	assert.False(t, IsPassword("abcdefg!"))

	assert.True(t, IsGroupName("my_group-1"))
	assert.False(t, IsGroupName(""))
	assert.False(t, IsGroupName("has space"))
	assert.False(t, IsGroupName("aaaaaaaaaaaaaaaaaaaaaaaaa")) // 25 chars

	assert.True(t, IsFileName("notes.txt"))
	assert.False(t, IsFileName("../etc"))
	assert.False(t, IsFileName("a/b"))
	assert.False(t, IsFileName(".."))
}
