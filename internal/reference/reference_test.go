package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePkgSite(t *testing.T) {
	r := &Resolver{
		ImportBase: "example.com/lib",
		Linker:     PkgSite{Base: "https://pkg.go.dev/example.com/lib/"},
	}
	ref, err := r.Resolve("bytes::streaming::Tag")
	require.NoError(t, err)
	assert.Equal(t, "bytes::streaming", ref.Module)
	assert.Equal(t, "Tag", ref.Symbol)
	assert.Equal(t, "https://pkg.go.dev/example.com/lib/bytes/streaming#Tag", ref.URL)
	assert.Equal(t, "bytes::streaming::[Tag](https://pkg.go.dev/example.com/lib/bytes/streaming#Tag)", ref.Markdown())

	name, spec := r.Import(ref)
	assert.Equal(t, "streaming", name)
	assert.Equal(t, `"example.com/lib/bytes/streaming"`, spec)

	again, err := r.Resolve("bytes::streaming::Tag")
	require.NoError(t, err)
	assert.Equal(t, ref, again)
}

func TestResolveEmptyModule(t *testing.T) {
	r := &Resolver{ImportBase: "example.com/lib", Linker: PkgSite{Base: "https://pkg.go.dev/example.com/lib"}}
	ref, err := r.Resolve("Error")
	require.NoError(t, err)
	assert.Equal(t, "", ref.Module)
	assert.Equal(t, "[Error](https://pkg.go.dev/example.com/lib#Error)", ref.Markdown())
	name, spec := r.Import(ref)
	assert.Equal(t, "lib", name)
	assert.Equal(t, `"example.com/lib"`, spec)
}

func TestRustDocCategories(t *testing.T) {
	r := &Resolver{Linker: RustDoc{Base: "https://docs.rs/nom/latest/nom/"}}
	ref, err := r.Resolve("character::complete::alpha1")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.rs/nom/latest/nom/character/complete/fn.alpha1.html", ref.URL)

	ref, err = r.Resolve("error::Error")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.rs/nom/latest/nom/error/struct.Error.html", ref.URL)

	assert.Equal(t, Callable, CategoryOf("tag"))
	assert.Equal(t, TypeLike, CategoryOf("Tag"))
	assert.Equal(t, TypeLike, CategoryOf("_x"))
}

func TestResolveList(t *testing.T) {
	r := &Resolver{ImportBase: "x", Linker: PkgSite{Base: "u"}}
	refs, err := r.ResolveList("a::F<br>b::G<br>")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "a::[F](u/a#F)<br>b::[G](u/b#G)", Markdown(refs))

	refs, err = r.ResolveList("")
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = r.ResolveList("a::")
	assert.Error(t, err)
}

func TestNewLinker(t *testing.T) {
	l, err := NewLinker("rustdoc", "b/")
	require.NoError(t, err)
	assert.IsType(t, RustDoc{}, l)

	l, err = NewLinker("", "b")
	require.NoError(t, err)
	assert.IsType(t, PkgSite{}, l)

	_, err = NewLinker("javadoc", "b")
	assert.Error(t, err)
}

func TestImportUsesDeclaredNames(t *testing.T) {
	r := &Resolver{
		ImportBase: "example.com/lib",
		Linker:     PkgSite{Base: "u"},
		Names:      map[string]string{"example.com/lib/go-yaml/v3": "yaml"},
	}
	ref, err := r.Resolve("go-yaml::v3::Unmarshal")
	require.NoError(t, err)
	name, spec := r.Import(ref)
	assert.Equal(t, "yaml", name)
	assert.Equal(t, `"example.com/lib/go-yaml/v3"`, spec)

	ref, err = r.Resolve("chroma::v2::Coalesce")
	require.NoError(t, err)
	name, _ = r.Import(ref)
	assert.Equal(t, "chroma", name)
}

func TestAssumedName(t *testing.T) {
	tests := map[string]string{
		"example.com/lib/bytes":           "bytes",
		"github.com/alecthomas/chroma/v2": "chroma",
		"github.com/mattn/go-isatty":      "isatty",
		"gopkg.in/yaml.v3":                "yaml",
		"example.com/v2":                  "example",
	}
	for in, want := range tests {
		assert.Equal(t, want, AssumedName(in), in)
	}
}
