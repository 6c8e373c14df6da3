// FILE: lixenwraith/paramtree/binder_test.go
package paramtree

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCLITree(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewBuilder().
		DeclareLeaf("level", "verbosity level", Default(3), Shortcut('l')).
		DeclareLeaf("distance", "distance to travel", Empty[float64](), Required()).
		DeclareLeaf("verbose", "verbose output", Default(false), Shortcut('v')).
		DeclareLeaf("quiet", "quiet output", Default(false), Shortcut('q')).
		DeclareList("tags", "free-form tags", DefaultList("demo"), Shortcut('t')).
		BeginSection("server", "listener").
		DeclareLeaf("port", "TCP port", Default[uint16](8080), Shortcut('p')).
		EndSection("server").
		DeclareList("inputs", "input files", EmptyList[FilePath](), Positional()).
		Finalize()
	require.NoError(t, err)
	return tree
}

func newCLIBinder(t *testing.T) (*Tree, *Binder) {
	t.Helper()
	tree := newCLITree(t)
	b, err := NewBinder(tree)
	require.NoError(t, err)
	return tree, b
}

// TestBinderEndToEnd covers declare, bind, parse and validate
func TestBinderEndToEnd(t *testing.T) {
	t.Run("RequiredSupplied", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"--distance", "2.5"}))

		level, err := ValueAt[int](tree, "level")
		require.NoError(t, err)
		assert.Equal(t, 3, level)

		distance, err := ValueAt[float64](tree, "distance")
		require.NoError(t, err)
		assert.Equal(t, 2.5, distance)

		assert.Empty(t, tree.MissingRequired())
		assert.NoError(t, tree.Validate())
	})

	t.Run("RequiredMissing", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"--level", "4"}))

		assert.Equal(t, []string{"distance"}, tree.MissingRequired())

		err := tree.Validate()
		require.ErrorIs(t, err, ErrMissingRequired)
		var mre *MissingRequiredError
		require.ErrorAs(t, err, &mre)
		assert.Equal(t, []string{"distance"}, mre.Paths)
	})
}

func TestBinderTable(t *testing.T) {
	_, b := newCLIBinder(t)
	rows := b.Bindings()
	require.Len(t, rows, 7)

	var longs []string
	for i, row := range rows {
		longs = append(longs, row.Long)
		assert.Equal(t, FirstLongCode+i, row.Code)
	}
	assert.Equal(t, []string{"level", "distance", "verbose", "quiet", "tags", "server-port", "inputs"}, longs)

	assert.True(t, rows[2].Flag)
	assert.False(t, rows[0].Flag)
	assert.True(t, rows[4].List)
	assert.True(t, rows[6].Positional)
	assert.Equal(t, 'p', rows[5].Short)

	t.Run("Lookups", func(t *testing.T) {
		e, ok := b.LookupShort('p')
		require.True(t, ok)
		assert.Equal(t, "server.port", e.Path())

		e, ok = b.LookupLong("tags")
		require.True(t, ok)
		assert.Equal(t, "tags", e.Path())

		e, ok = b.LookupCode(FirstLongCode)
		require.True(t, ok)
		assert.Equal(t, "level", e.Path())

		_, ok = b.LookupShort('z')
		assert.False(t, ok)

		e, ok = b.Positional()
		require.True(t, ok)
		assert.Equal(t, "inputs", e.Path())
	})

	t.Run("FlagTypes", func(t *testing.T) {
		fs := b.FlagSet()
		assert.Equal(t, "int", fs.Lookup("level").Value.Type())
		assert.Equal(t, "bool", fs.Lookup("verbose").Value.Type())
		assert.Equal(t, "strings", fs.Lookup("tags").Value.Type())
		assert.Equal(t, "8080", fs.Lookup("server-port").DefValue)
	})

	t.Run("Separator", func(t *testing.T) {
		sb, err := NewBinder(newCLITree(t), WithSeparator("."))
		require.NoError(t, err)
		_, ok := sb.LookupLong("server.port")
		assert.True(t, ok)
	})
}

func TestBinderOptionSyntax(t *testing.T) {
	tests := []struct {
		name string
		args []string
		port uint16
	}{
		{"LongSpace", []string{"--server-port", "9090"}, 9090},
		{"LongEquals", []string{"--server-port=9091"}, 9091},
		{"ShortSpace", []string{"-p", "9092"}, 9092},
		{"ShortJoined", []string{"-p9093"}, 9093},
		{"LastWins", []string{"-p", "1", "--server-port", "2"}, 2},
		{"HexNumeral", []string{"-p", "0x10"}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, b := newCLIBinder(t)
			require.NoError(t, b.Parse(tt.args))

			port, err := ValueAt[uint16](tree, "server.port")
			require.NoError(t, err)
			assert.Equal(t, tt.port, port)

			e, _ := tree.Lookup("server.port")
			assert.True(t, e.IsSet())
		})
	}
}

func TestBinderFlags(t *testing.T) {
	t.Run("PresenceSetsTrue", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"--verbose"}))

		verbose, _ := ValueAt[bool](tree, "verbose")
		assert.True(t, verbose)
		quiet, _ := tree.Lookup("quiet")
		assert.False(t, quiet.IsSet())
	})

	t.Run("GroupedShortFlags", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"-vq", "-vl7"}))

		verbose, _ := ValueAt[bool](tree, "verbose")
		quiet, _ := ValueAt[bool](tree, "quiet")
		level, _ := ValueAt[int](tree, "level")
		assert.True(t, verbose)
		assert.True(t, quiet)
		assert.Equal(t, 7, level)
	})

	t.Run("ExplicitValue", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"--verbose=no"}))

		verbose, _ := ValueAt[bool](tree, "verbose")
		assert.False(t, verbose)
		e, _ := tree.Lookup("verbose")
		assert.True(t, e.IsSet(), "an explicit default still counts as set")
	})
}

func TestBinderLists(t *testing.T) {
	t.Run("OccurrencesAppend", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"-t", "a", "--tags", "b,c", "--tags=d"}))

		tags, err := ListAt[string](tree, "tags")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b,c", "d"}, tags)
	})

	t.Run("DefaultsKeptWithoutOption", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse(nil))

		tags, _ := ListAt[string](tree, "tags")
		assert.Equal(t, []string{"demo"}, tags)
	})

	t.Run("EachParseStartsOver", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"--tags", "a"}))
		require.NoError(t, b.Parse([]string{"--tags", "b"}))

		tags, _ := ListAt[string](tree, "tags")
		assert.Equal(t, []string{"b"}, tags)
	})
}

func TestBinderPositional(t *testing.T) {
	t.Run("Permuted", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"a.txt", "--level", "4", "b.txt"}))

		inputs, err := ListAt[FilePath](tree, "inputs")
		require.NoError(t, err)
		assert.Equal(t, []FilePath{"a.txt", "b.txt"}, inputs)

		level, _ := ValueAt[int](tree, "level")
		assert.Equal(t, 4, level)
	})

	t.Run("Terminator", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		require.NoError(t, b.Parse([]string{"--", "--level", "-v"}))

		inputs, _ := ListAt[FilePath](tree, "inputs")
		assert.Equal(t, []FilePath{"--level", "-v"}, inputs)

		level, _ := tree.Lookup("level")
		assert.False(t, level.IsSet())
	})

	t.Run("ScalarTakesOne", func(t *testing.T) {
		tree := NewBuilder().
			DeclareLeaf("target", "build target", Empty[string](), Positional()).
			MustFinalize()
		b, err := NewBinder(tree)
		require.NoError(t, err)

		require.NoError(t, b.Parse([]string{"all"}))
		target, _ := ValueAt[string](tree, "target")
		assert.Equal(t, "all", target)

		assert.ErrorIs(t, b.Parse([]string{"one", "two"}), ErrCLIParse)
	})

	t.Run("NoPositionalBinding", func(t *testing.T) {
		tree := NewBuilder().DeclareLeaf("x", "", Default(1)).MustFinalize()
		b, err := NewBinder(tree)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Parse([]string{"stray"}), ErrCLIParse)
	})
}

func TestBinderErrors(t *testing.T) {
	t.Run("TypedParseError", func(t *testing.T) {
		_, b := newCLIBinder(t)
		err := b.Parse([]string{"--level", "abc"})
		assert.ErrorIs(t, err, ErrParse)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, KindInt, pe.Kind)
	})

	t.Run("TypedRangeErrorKeepsEarlierValues", func(t *testing.T) {
		tree, b := newCLIBinder(t)
		err := b.Parse([]string{"--level", "5", "--server-port", "70000"})

		var re *RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, Overflow, re.Bound)

		level, _ := ValueAt[int](tree, "level")
		assert.Equal(t, 5, level)
		port, _ := ValueAt[uint16](tree, "server.port")
		assert.Equal(t, uint16(8080), port)
	})

	t.Run("UnknownOption", func(t *testing.T) {
		_, b := newCLIBinder(t)
		assert.ErrorIs(t, b.Parse([]string{"--nope"}), ErrCLIParse)
		assert.ErrorIs(t, b.Parse([]string{"-x"}), ErrCLIParse)
	})

	t.Run("MissingArgument", func(t *testing.T) {
		_, b := newCLIBinder(t)
		assert.ErrorIs(t, b.Parse([]string{"--level"}), ErrCLIParse)
	})

	t.Run("Help", func(t *testing.T) {
		_, b := newCLIBinder(t)
		assert.ErrorIs(t, b.Parse([]string{"--help"}), pflag.ErrHelp)
	})
}

func TestBinderConstruction(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		want    error
	}{
		{
			name: "DuplicateShortcut",
			builder: NewBuilder().
				DeclareLeaf("a", "", Default(1), Shortcut('x')).
				DeclareLeaf("b", "", Default(2), Shortcut('x')),
			want: ErrDuplicateShortcut,
		},
		{
			name: "DuplicateLongName",
			builder: NewBuilder().
				DeclareLeaf("a-b", "", Default(1)).
				BeginSection("a", "").
				DeclareLeaf("b", "", Default(2)).
				EndSection(),
			want: ErrDuplicateLongName,
		},
		{
			name:    "InvalidShortcut",
			builder: NewBuilder().DeclareLeaf("a", "", Default(1), Shortcut('-')),
			want:    ErrInvalidShortcut,
		},
		{
			name:    "LeadingDashName",
			builder: NewBuilder().DeclareLeaf("-x", "", Default(1)),
			want:    ErrInvalidLongName,
		},
		{
			name: "LeadingDashSection",
			builder: NewBuilder().
				BeginSection("-net", "").
				DeclareLeaf("port", "", Default(1)).
				EndSection(),
			want: ErrInvalidLongName,
		},
		{
			name: "DuplicatePositional",
			builder: NewBuilder().
				DeclareLeaf("a", "", Empty[string](), Positional()).
				DeclareList("b", "", EmptyList[string](), Positional()),
			want: ErrDuplicatePositional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := tt.builder.Finalize()
			require.NoError(t, err)
			_, err = NewBinder(tree)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBinderSeparatorWithEquals(t *testing.T) {
	tree := NewBuilder().
		BeginSection("server", "").
		DeclareLeaf("port", "", Default(1)).
		EndSection().
		MustFinalize()

	_, err := NewBinder(tree, WithSeparator("="))
	assert.ErrorIs(t, err, ErrInvalidLongName)

	b, err := NewBinder(tree, WithSeparator("_"))
	require.NoError(t, err)
	require.NoError(t, b.Parse([]string{"--server_port", "5"}))
	port, _ := ValueAt[int](tree, "server.port")
	assert.Equal(t, 5, port)
}

func TestBinderRebuild(t *testing.T) {
	tree := NewBuilder().
		BeginStructList("servers", "backends").
		DeclareLeaf("host", "host name", Empty[string]()).
		EndSection().
		MustFinalize()
	b, err := NewBinder(tree)
	require.NoError(t, err)
	assert.Empty(t, b.Bindings())

	servers, _ := tree.Lookup("servers")
	_, err = servers.List().Append()
	require.NoError(t, err)

	// Nothing is tracked until the table is rebuilt.
	assert.ErrorIs(t, b.Parse([]string{"--servers-0-host", "h"}), ErrCLIParse)

	require.NoError(t, b.Rebuild())
	require.NoError(t, b.Parse([]string{"--servers-0-host", "h"}))
	host, err := ValueAt[string](tree, "servers.#0.host")
	require.NoError(t, err)
	assert.Equal(t, "h", host)
}

func TestBinderAddTo(t *testing.T) {
	tree, b := newCLIBinder(t)

	fs := pflag.NewFlagSet("app", pflag.ContinueOnError)
	require.NoError(t, b.AddTo(fs))
	require.NoError(t, fs.Parse([]string{"--level", "9", "in.txt"}))
	require.NoError(t, b.ApplyPositional(fs.Args()))

	level, _ := ValueAt[int](tree, "level")
	assert.Equal(t, 9, level)
	inputs, _ := ListAt[FilePath](tree, "inputs")
	assert.Equal(t, []FilePath{"in.txt"}, inputs)

	t.Run("Conflicts", func(t *testing.T) {
		_, other := newCLIBinder(t)
		taken := pflag.NewFlagSet("app", pflag.ContinueOnError)
		taken.Int("level", 0, "")
		assert.ErrorIs(t, other.AddTo(taken), ErrDuplicateLongName)

		shorts := pflag.NewFlagSet("app", pflag.ContinueOnError)
		shorts.BoolP("version", "v", false, "")
		assert.ErrorIs(t, other.AddTo(shorts), ErrDuplicateShortcut)
	})
}

func TestBinderUsage(t *testing.T) {
	_, b := newCLIBinder(t)
	usage := b.Usage()

	assert.Contains(t, usage, "--server-port")
	assert.Contains(t, usage, "-p, --server-port")
	assert.Contains(t, usage, "distance to travel (required)")
	assert.Contains(t, usage, "Arguments:")
	assert.Contains(t, usage, "inputs...")
}
