package videoid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNamespaceUUIDForDomain_YouTubeExample(t *testing.T) {
	ns := NamespaceUUIDForDomain("youtube.com")
	require.Equal(t, uuid.MustParse("e500b8bc-9419-5269-b157-d8b9584d5b9e"), ns)
	require.Equal(t, ns, NamespaceUUIDForDomain(" YouTube.com. "))
}

func TestResolveCanonicalDomain_Aliases(t *testing.T) {
	require.Equal(t, "youtube.com", ResolveCanonicalDomain("youtu.be"))
	require.Equal(t, "youtube.com", ResolveCanonicalDomain("www.youtube.com"))
	require.Equal(t, "youtube.com", ResolveCanonicalDomain("music.youtube.com"))
	require.Equal(t, "youtube.com", ResolveCanonicalDomain("www.youtube.com:443"))
	require.Equal(t, "soundcloud.com", ResolveCanonicalDomain("m.soundcloud.com"))
	require.Equal(t, "x.com", ResolveCanonicalDomain("twitter.com"))
	require.Equal(t, "example.org", ResolveCanonicalDomain("Example.org."))
}

func TestNormalizeSourceURL_YouTube_StripsQuery(t *testing.T) {
	n, canon, err := NormalizeSourceURL("https://www.youtube.com/watch?v=ggLajT7aMMk&t=123s&si=abc")
	require.NoError(t, err)
	require.Equal(t, "youtube.com", canon)
	require.Equal(t, "https://youtube.com/watch?v=ggLajT7aMMk", n)

	n, canon, err = NormalizeSourceURL("youtu.be/ggLajT7aMMk?t=120")
	require.NoError(t, err)
	require.Equal(t, "youtube.com", canon)
	require.Equal(t, "https://youtube.com/watch?v=ggLajT7aMMk", n)

	n, _, err = NormalizeSourceURL("https://music.youtube.com/watch?v=ggLajT7aMMk&list=RDAMVM")
	require.NoError(t, err)
	require.Equal(t, "https://youtube.com/watch?v=ggLajT7aMMk", n)

	n, _, err = NormalizeSourceURL("https://youtube.com/shorts/ggLajT7aMMk?feature=share&t=10")
	require.NoError(t, err)
	require.Equal(t, "https://youtube.com/watch?v=ggLajT7aMMk", n)
}

func TestNormalizeSourceURL_SoundCloud_StripsQuery(t *testing.T) {
	n, canon, err := NormalizeSourceURL("https://m.soundcloud.com/artist/track/?si=123&utm_source=clipboard#t=1:00")
	require.NoError(t, err)
	require.Equal(t, "soundcloud.com", canon)
	require.Equal(t, "https://soundcloud.com/artist/track", n)
}

func TestNormalizeSourceURL_UnknownHostKeepsQuery(t *testing.T) {
	n, canon, err := NormalizeSourceURL("http://media.example.org/a/?id=5#frag")
	require.NoError(t, err)
	require.Equal(t, "media.example.org", canon)
	require.Equal(t, "https://media.example.org/a?id=5", n)
}

func TestNormalizeSourceURL_Empty(t *testing.T) {
	_, _, err := NormalizeSourceURL("   ")
	require.Error(t, err)
}

func TestExtractYouTubeVideoID(t *testing.T) {
	for _, in := range []string{
		"https://www.youtube.com/watch?v=ggLajT7aMMk",
		"https://youtu.be/ggLajT7aMMk",
		"https://www.youtube.com/embed/ggLajT7aMMk",
		"https://www.youtube.com/live/ggLajT7aMMk?feature=share",
	} {
		id, err := ExtractYouTubeVideoID(in)
		require.NoError(t, err, in)
		require.Equal(t, "ggLajT7aMMk", id, in)
	}

	_, err := ExtractYouTubeVideoID("https://example.com/watch?v=ggLajT7aMMk")
	require.Error(t, err)
}

func TestKeyFor_SameMediaSameKey(t *testing.T) {
	a := KeyFor("https://www.youtube.com/watch?v=ggLajT7aMMk&t=5")
	b := KeyFor("youtu.be/ggLajT7aMMk")
	require.Equal(t, a, b)
	require.Equal(t, "https://youtube.com/watch?v=ggLajT7aMMk", a.URL)
	require.Equal(t, uuid.NewSHA1(NamespaceUUIDForDomain("youtube.com"), []byte(a.URL)), a.ID)

	c := KeyFor("https://youtu.be/otherVideo1")
	require.NotEqual(t, a.ID, c.ID)
}

func TestKeyFor_FallsBackToRawInput(t *testing.T) {
	k := KeyFor("  ")
	require.Equal(t, "", k.URL)
	require.Equal(t, k, KeyFor(""))
}
