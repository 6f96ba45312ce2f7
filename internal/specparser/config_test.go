package specparser

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseConfig_RegisterTokensAndSkip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tab := symbol.NewTable()
	ra := &ruleAccumulator{}
	cfg, err := parseConfig("x.lalr", `
%attr Val
%target Calc
%token NUMBER (\d+)
%skip (\s+)
`, tab, ra, nil)
	require.NoError(err)

	assert.Equal("Val", cfg.Attr)
	assert.Equal("Calc", cfg.Target)
	assert.NotNil(tab.Lookup("NUMBER"))
	require.Len(ra.rules, 2)
	assert.Equal("NUMBER", ra.rules[0].TokenName)
}

func Test_ParseConfig_DuplicateTokenIsError(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	ra := &ruleAccumulator{}
	_, err := parseConfig("x.lalr", `
%token A "a"
%token A "b"
`, tab, ra, nil)
	assert.Error(err)
}

func Test_ParseConfig_PrecedenceOnNonTerminalIsError(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	tab.DefineNonTerminal("Expr", symbol.Location{})
	ra := &ruleAccumulator{}
	_, err := parseConfig("x.lalr", `%left Expr`, tab, ra, nil)
	assert.Error(err)
}

func Test_ParseConfig_InjectWithoutReaderIsError(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	ra := &ruleAccumulator{}
	_, err := parseConfig("x.lalr", `%inject "missing.lalrinc"`, tab, ra, nil)
	assert.Error(err)
}

func Test_ParseConfig_UnrecognizedDirectiveIsError(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	ra := &ruleAccumulator{}
	_, err := parseConfig("x.lalr", `%bogus foo`, tab, ra, nil)
	assert.Error(err)
}
