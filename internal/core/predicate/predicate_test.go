package predicate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/identity"
)

func TestMatchesName(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.go", "./src/main.go", true},
		{"*.go", "./src/main.go.bak", false},
		{"main.go", "./src/main.go", true},
		{"main.go", "./src/xmain.go", false},
		{"src", "./src/", true},
		{"?.txt", "dir/a.txt", true},
		{"?.txt", "dir/ab.txt", false},
		{"[abc].txt", "b.txt", true},
		{"[!abc].txt", "b.txt", false},
		{"[!abc].txt", "d.txt", true},
		{"*", ".hidden", true},
		{"Main.go", "main.go", false},
		{"{a,b}", "{a,b}", true},
		{"{a,b}", "a", false},
		{"/", "/", true},
		{"*o*", "dir/foo", true},
		{"[abc", "[abc", true},
		{"[abc", "a", false},
		{"[]a]", "]", true},
		{"[]a]", "a", true},
		{"[]a]", "b", false},
		{"[a-]", "-", true},
		{"[a-]", "a", true},
		{"[a-cx]", "b", true},
		{"[a-cx]", "x", true},
		{"[a-cx]", "d", false},
		{"[!a]x", "bx", true},
		{"[^a]x", "ax", false},
		{"[!]", "[!]", true},
		{"[[:digit:]]*", "7up", true},
		{"[[:digit:]]*", "up", false},
		{"[z-a]x", "zx", false},
		{"a**b", "axyb", true},
		{`\*.go`, "*.go", true},
		{`\*.go`, "main.go", false},
		{`a\`, `a\`, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			p, err := CompileName(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, MatchesName(tt.path, p))
		})
	}
}

func TestMatchesPath(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"./src/*", "./src/main.go", true},
		{"./src/*", "./src/pkg/main.go", false},
		{"./*/main.go", "./src/main.go", true},
		{"*main.go", "./src/main.go", false},
		{"./src/?ain.go", "./src/main.go", true},
		{"./src/main.go", "./src/main.go", true},
		{"./src/main.go", "src/main.go", false},
		{"./src", "./src/", false},
		{"/a/**", "/a/b/c", false},
		{"/a/**", "/a/b", true},
		{"./**/main.go", "./src/main.go", true},
		{"./**/main.go", "./src/pkg/main.go", false},
		{`./src/\*`, "./src/*", true},
		{`./src/\*`, "./src/main.go", false},
		{"./[s]rc/*", "./src/main.go", true},
		{"./[a-z]*/main.go", "./src/main.go", true},
		{"./src[/]main.go", "./src/main.go", false},
		{"./src[!x]main.go", "./src/main.go", false},
		{"./src[!x]main.go", "./src_main.go", true},
		{"./src?main.go", "./src/main.go", false},
		{"./[!.]*", "./src", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			p, err := CompilePath(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, MatchesPath(tt.path, p))
		})
	}
}

func TestLiteralPatternsMatchOnlyThemselves(t *testing.T) {
	names := []string{"a.txt", "README", "x-y_z.1", "dir{1}"}
	for _, name := range names {
		p, err := CompileName(name)
		require.NoError(t, err)
		for _, other := range names {
			assert.Equal(t, name == other, MatchesName("root/"+other, p), "%s vs %s", name, other)
		}
	}

	paths := []string{"./a/b", "./a/b/c", "a/b", "./a"}
	for _, path := range paths {
		p, err := CompilePath(path)
		require.NoError(t, err)
		for _, other := range paths {
			assert.Equal(t, path == other, MatchesPath(other, p), "%s vs %s", path, other)
		}
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		pattern  string
		pathMode bool
		want     string
	}{
		{"/a/**", true, "/a/*"},
		{"{a,b}", false, `\{a\,b\}`},
		{"[abc", false, `\[abc`},
		{"[]a]", false, `[\]\a]`},
		{"[a-]", false, `[\a\-]`},
		{"[!a]", false, "[!a-a]"},
		{"[!a]", true, `[!\/\a]`},
		{"[a-z]", true, "[a-z]"},
		{"[x]", false, "x"},
	}

	for _, tt := range tests {
		got, ok := translate(tt.pattern, tt.pathMode)
		assert.True(t, ok, tt.pattern)
		assert.Equal(t, tt.want, got, tt.pattern)
	}

	_, ok := translate("[z-a]", false)
	assert.False(t, ok)
	_, ok = translate("[/]", true)
	assert.False(t, ok)
}

func TestCompile_AcceptsEveryFnmatchPattern(t *testing.T) {
	patterns := []string{"[abc", "[]a]", "[a-]", "[!]", "[", "]", "[!-]", "[!!-~]", "[--z]", "[\\-a]", "{", "}", ",", `\`, "[[:bogus:]]", "[\\]"}

	for _, pattern := range patterns {
		_, err := CompileName(pattern)
		assert.NoError(t, err, "-name %s", pattern)
		_, err = CompilePath(pattern)
		assert.NoError(t, err, "-path %s", pattern)
	}
}

func TestMatchesType_ExactlyOne(t *testing.T) {
	types := []domain.FileType{
		domain.FileTypeRegular,
		domain.FileTypeDirectory,
		domain.FileTypeBlockDevice,
		domain.FileTypeCharDevice,
		domain.FileTypeFIFO,
		domain.FileTypeSymlink,
		domain.FileTypeSocket,
	}

	for _, ft := range types {
		meta := domain.Metadata{Type: ft}
		matches := 0
		for i := 0; i < len(domain.TypeChars); i++ {
			if MatchesType(meta, domain.TypeChars[i]) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "type %v", ft)
	}
}

func TestMatchesType_Letters(t *testing.T) {
	assert.True(t, MatchesType(domain.Metadata{Type: domain.FileTypeDirectory}, 'd'))
	assert.True(t, MatchesType(domain.Metadata{Type: domain.FileTypeRegular}, 'f'))
	assert.True(t, MatchesType(domain.Metadata{Type: domain.FileTypeSymlink}, 'l'))
	assert.True(t, MatchesType(domain.Metadata{Type: domain.FileTypeFIFO}, 'p'))
	assert.False(t, MatchesType(domain.Metadata{Type: domain.FileTypeRegular}, 'd'))
}

func testResolver() identity.Static {
	return identity.Static{
		Users: map[uint32]string{
			0:    "root",
			1000: "alice",
			2000: "3000", // numeric login name
		},
	}
}

func TestMatchesUser(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name       string
		uid        uint32
		identifier string
		want       bool
	}{
		{"name matches", 1000, "alice", true},
		{"name differs", 0, "alice", false},
		{"root by name", 0, "root", true},
		{"zero compared with uid", 0, "0", true},
		{"zero against other owner", 1000, "0", false},
		{"uid of known account", 1000, "1000", true},
		{"uid of deleted account", 5555, "5555", true},
		{"uid mismatch", 5555, "5556", false},
		{"numeric login name wins", 2000, "3000", true},
		{"numeric login name not raw uid", 3000, "3000", false},
		{"negative wraps around", 4294967295, "-1", true},
		{"plus sign", 5, "+5", true},
		{"leading space", 5, " 5", true},
		{"empty reads as zero", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchesUser(r, domain.Metadata{UID: tt.uid}, tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesUser_UnknownNameIsFatal(t *testing.T) {
	_, err := MatchesUser(testResolver(), domain.Metadata{UID: 1000}, "mallory")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownUser))
	assert.True(t, domain.IsUsageError(err))
	assert.Equal(t, "`mallory' is not the name of a known user", err.Error())

	for _, identifier := range []string{"5x", " ", "+", "1.5"} {
		_, err := MatchesUser(testResolver(), domain.Metadata{UID: 5}, identifier)
		assert.True(t, errors.Is(err, domain.ErrUnknownUser), "%q", identifier)
	}
}

func TestHasNoOwner(t *testing.T) {
	r := testResolver()
	assert.False(t, HasNoOwner(r, domain.Metadata{UID: 1000}))
	assert.True(t, HasNoOwner(r, domain.Metadata{UID: 4711}))
	assert.True(t, HasNoOwner(r, domain.Metadata{UID: domain.UnknownID}))
}
