package credentials_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/dmtool-server/credentials"
	"github.com/stretchr/testify/require"
)

func TestArgon2(t *testing.T) {
	h, err := credentials.New("argon2id")
	require.NoError(t, err)
	require.Equal(t, credentials.DefaultArgon2(), h)

	fast := credentials.Argon2{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

	digest, err := fast.Hash("s3cret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=1024,t=1,p=1$"), digest)
	require.True(t, fast.Matches("s3cret", digest))
	require.False(t, fast.Matches("other", digest))

	again, err := fast.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, digest, again, "digests are salted")

	// Parameters come from the digest, not the hasher.
	require.True(t, credentials.DefaultArgon2().Matches("s3cret", digest))

	for _, bad := range []string{
		"",
		"33e1b232a4e6fa0028a6670753749a17",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5",
	} {
		require.False(t, fast.Matches("s3cret", bad), bad)
	}
}
