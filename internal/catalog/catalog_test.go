package catalog

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 8, c.Len())

	all := c.All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	for _, p := range all {
		assert.NotEmpty(t, p.Title, p.ID)
		assert.NotEmpty(t, p.Prompt, p.ID)
		assert.NotEmpty(t, p.Solutions(), p.ID)
	}
}

func TestGet(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, err := c.Get("departments-without-employees")
	require.NoError(t, err)
	assert.Equal(t, "anti-joins", p.Topic)
	assert.Equal(t, [][]string{{"Legal"}}, p.Expected)
	assert.Len(t, p.Solutions(), 2)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrProblemNotFound)
}

func TestByTopicAndTopics(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"aggregation",
		"anti-joins",
		"gaps-and-islands",
		"recursive-ctes",
		"window-functions",
	}, c.Topics())

	windows := c.ByTopic("Window-Functions")
	assert.Len(t, windows, 3)
	for _, p := range windows {
		assert.Equal(t, "window-functions", p.Topic)
	}

	assert.Len(t, c.ByTopic(""), c.Len())
	assert.Empty(t, c.ByTopic("sharding"))
	assert.NotNil(t, c.ByTopic("sharding"))
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.All()
	all[0].ID = "mutated"

	assert.NotEqual(t, "mutated", c.All()[0].ID)
}

const validDoc = `
id: %s
title: t
topic: joins
prompt: p
ordered: true
expected:
  - ["1"]
attempts:
  - label: ok
    verdict: done
    sql: SELECT 1;
`

func fsWith(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, body := range files {
		m["problems/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return m
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "missing id",
			doc: `
topic: joins
expected: [["1"]]
attempts: [{verdict: done, sql: "SELECT 1"}]
`,
			wantErr: "missing id",
		},
		{
			name: "no expected rows",
			doc: `
id: a
topic: joins
attempts: [{verdict: done, sql: "SELECT 1"}]
`,
			wantErr: "no expected rows",
		},
		{
			name: "ragged expected rows",
			doc: `
id: a
topic: joins
expected: [["1", "2"], ["3"]]
attempts: [{verdict: done, sql: "SELECT 1"}]
`,
			wantErr: "has 1 columns, want 2",
		},
		{
			name: "no done attempt",
			doc: `
id: a
topic: joins
expected: [["1"]]
attempts: [{verdict: wrong, sql: "SELECT 2", failure: {kind: mismatch}}]
`,
			wantErr: "no done attempt",
		},
		{
			name: "wrong attempt without failure",
			doc: `
id: a
topic: joins
expected: [["1"]]
attempts:
  - {verdict: done, sql: "SELECT 1"}
  - {verdict: wrong, sql: "SELECT 2"}
`,
			wantErr: "has no failure kind",
		},
		{
			name: "unknown failure kind",
			doc: `
id: a
topic: joins
expected: [["1"]]
attempts:
  - {verdict: done, sql: "SELECT 1"}
  - {verdict: wrong, sql: "SELECT 2", failure: {kind: slow}}
`,
			wantErr: `unknown failure kind "slow"`,
		},
		{
			name: "error failure without contains",
			doc: `
id: a
topic: joins
expected: [["1"]]
attempts:
  - {verdict: done, sql: "SELECT 1"}
  - {verdict: wrong, sql: "SELEC 2", failure: {kind: error}}
`,
			wantErr: "error failure needs contains",
		},
		{
			name: "unknown verdict",
			doc: `
id: a
topic: joins
expected: [["1"]]
attempts: [{verdict: maybe, sql: "SELECT 1"}]
`,
			wantErr: `unknown verdict "maybe"`,
		},
		{
			name: "empty sql",
			doc: `
id: a
topic: joins
expected: [["1"]]
attempts: [{verdict: done, sql: "  "}]
`,
			wantErr: "has no sql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(fsWith(map[string]string{"a.yaml": tt.doc}))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProblem)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	_, err := Load(fsWith(map[string]string{
		"a.yaml": fmt.Sprintf(validDoc, "same"),
		"b.yaml": fmt.Sprintf(validDoc, "same"),
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidProblem)
	assert.Contains(t, err.Error(), `duplicate id "same"`)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(fsWith(map[string]string{"bad.yaml": "id: [unclosed"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode bad.yaml")
}

func TestLoadSortsByID(t *testing.T) {
	c, err := Load(fsWith(map[string]string{
		"1.yaml": fmt.Sprintf(validDoc, "zeta"),
		"2.yaml": fmt.Sprintf(validDoc, "alpha"),
	}))
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].ID)
	assert.Equal(t, "zeta", all[1].ID)

	p, err := c.Get("zeta")
	require.NoError(t, err)
	assert.Equal(t, "zeta", p.ID)
}
