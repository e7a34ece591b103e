package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
		str  string
		num  float64
		b    bool
	}{
		{src: `'hello'`, kind: KindString, str: "hello"},
		{src: `"it's"`, kind: KindString, str: "it's"},
		{src: "`plain`", kind: KindString, str: "plain"},
		{src: `''`, kind: KindString, str: ""},
		{src: `'a\'b\n'`, kind: KindString, str: "a'b\n"},
		{src: `'A\x42\u{43}'`, kind: KindString, str: "ABC"},
		{src: `5`, kind: KindNumber, num: 5},
		{src: `-1.5`, kind: KindNumber, num: -1.5},
		{src: `.25`, kind: KindNumber, num: 0.25},
		{src: `1e3`, kind: KindNumber, num: 1000},
		{src: `0x1F`, kind: KindNumber, num: 31},
		{src: `1_000`, kind: KindNumber, num: 1000},
		{src: `true`, kind: KindBool, b: true},
		{src: `false`, kind: KindBool},
		{src: `null`, kind: KindNull},
		{src: `undefined`, kind: KindUndefined},
		{src: `String`, kind: KindIdent, str: "String"},
		{src: `$ref_1`, kind: KindIdent, str: "$ref_1"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.src, v.Source)
			switch tt.kind {
			case KindString, KindIdent:
				assert.Equal(t, tt.str, v.Str)
			case KindNumber:
				assert.Equal(t, tt.num, v.Num)
			case KindBool:
				assert.Equal(t, tt.b, v.Bool)
			}
		})
	}
}

func TestParse_ObjectKeepsOrder(t *testing.T) {
	v, err := Parse(`{
		zeta: { type: String },
		alpha: { type: Number, default: 5 },
		'quoted-key': { type: Boolean, default: false },
	}`)
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind)
	assert.Equal(t, []string{"zeta", "alpha", "quoted-key"}, v.Keys())

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	def, ok := alpha.Get("default")
	require.True(t, ok)
	assert.Equal(t, KindNumber, def.Kind)
	assert.Equal(t, "5", def.Source)

	_, ok = v.Get("missing")
	assert.False(t, ok)
}

func TestParse_DuplicateKeysLastWriteWins(t *testing.T) {
	v, err := Parse(`{ a: 1, b: 2, a: 3 }`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, v.Keys())
	a, _ := v.Get("a")
	assert.Equal(t, float64(3), a.Num)
}

func TestParse_Arrays(t *testing.T) {
	v, err := Parse(`['foo', "bar", ]`)
	require.NoError(t, err)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Elems, 2)
	assert.Equal(t, "foo", v.Elems[0].Str)
	assert.Equal(t, "bar", v.Elems[1].Str)

	v, err = Parse(`[String, Number]`)
	require.NoError(t, err)
	require.Len(t, v.Elems, 2)
	assert.Equal(t, KindIdent, v.Elems[0].Kind)
	assert.Equal(t, "Number", v.Elems[1].Str)

	v, err = Parse(`[]`)
	require.NoError(t, err)
	assert.Empty(t, v.Elems)
}

func TestParse_Comments(t *testing.T) {
	v, err := Parse(`{
		// the label shown on the card
		label: { type: String, default: 'x' }, /* trailing */
		/* block
		   comment */ size: { type: Number }
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "size"}, v.Keys())
}

func TestParse_RawExpressions(t *testing.T) {
	v, err := Parse(`{
		items: { type: Array, default: () => [] },
		config: { type: Object, default: () => ({ a: 1, b: [2, 3] }) },
		sum: { default: 1 + 2 },
		named: { default: DEFAULT_SIZE },
		valid: { validator: (v) => ['a', 'b'].includes(v) },
		label: { default: 'a, b' + suffix },
	}`)
	require.NoError(t, err)

	get := func(field, key string) Value {
		t.Helper()
		f, ok := v.Get(field)
		require.True(t, ok, field)
		val, ok := f.Get(key)
		require.True(t, ok, field+"."+key)
		return val
	}

	items := get("items", "default")
	assert.Equal(t, KindRaw, items.Kind)
	assert.Equal(t, "() => []", items.Source)

	assert.Equal(t, "() => ({ a: 1, b: [2, 3] })", get("config", "default").Source)
	assert.Equal(t, "1 + 2", get("sum", "default").Source)
	assert.Equal(t, KindIdent, get("named", "default").Kind)
	assert.Equal(t, "(v) => ['a', 'b'].includes(v)", get("valid", "validator").Source)
	assert.Equal(t, "'a, b' + suffix", get("label", "default").Source)
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		``,
		`   `,
		`{ a: 1`,
		`['unterminated]`,
		`{ a: (1, 2 }`,
		`[1,,2]`,
		`{ a: 1 } extra`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestParse_ShorthandAndMethodMembers(t *testing.T) {
	v, err := Parse(`{
		type: Number,
		required,
		validator(v) { return v > 0 && v < ')' },
		'default'() { return { a: [1] } },
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "required", "validator", "default"}, v.Keys())

	req, _ := v.Get("required")
	assert.Equal(t, KindIdent, req.Kind)
	assert.True(t, req.Shorthand)

	validator, _ := v.Get("validator")
	assert.Equal(t, KindRaw, validator.Kind)
	assert.True(t, validator.Method)
	assert.Equal(t, "validator(v) { return v > 0 && v < ')' }", validator.Source)
	assert.Equal(t, "(v) => { return v > 0 && v < ')' }", validator.Str)

	def, _ := v.Get("default")
	assert.True(t, def.Method)
	assert.Equal(t, "() => { return { a: [1] } }", def.Str)
}

func TestParse_NestedObjectErrorsAreNotRaw(t *testing.T) {
	tests := []string{
		`{ a: { b: 1, get c() { return 1 } } }`,
		`{ a: [1, , 2] }`,
		`{ a: { 'quoted' } }`,
		`{ a: { m() } }`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "raw", KindRaw.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
