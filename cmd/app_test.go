package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/syncer"
)

type fakeEngine struct {
	updated   []string
	updateAll int
	updateErr error
}

func (f *fakeEngine) ListTables(context.Context) ([]string, error) {
	return []string{"currency", "offers"}, nil
}

func (f *fakeEngine) TableDDL(_ context.Context, table string) (string, error) {
	return `CREATE TABLE IF NOT EXISTS "` + table + `" ("id" TEXT, PRIMARY KEY ("id"))`, nil
}

func (f *fakeEngine) Update(_ context.Context, table string) error {
	f.updated = append(f.updated, table)
	return f.updateErr
}

func (f *fakeEngine) UpdateAll(context.Context) error {
	f.updateAll++
	return f.updateErr
}

func runWith(t *testing.T, eng engine, stdin string, argv ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	require.NoError(t, cmd.ParseFlags(argv))

	var out, errw bytes.Buffer
	a := &app{svc: eng, out: &out, errw: &errw}
	err := a.run(context.Background(), cmd, cmd.Flags().Args())
	return out.String(), errw.String(), err
}

func TestRunTables(t *testing.T) {
	for _, argv := range [][]string{{"--tables"}, {"-t"}} {
		out, _, err := runWith(t, &fakeEngine{}, "", argv...)
		require.NoError(t, err)
		assert.Equal(t, "Tables: currency, offers\n", out)
	}
}

func TestRunDDL(t *testing.T) {
	out, _, err := runWith(t, &fakeEngine{}, "", "-d", "offers")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "offers"`)
}

func TestRunUpdateForms(t *testing.T) {
	tests := []struct {
		argv  []string
		table string
		all   bool
	}{
		{argv: []string{"--update"}, all: true},
		{argv: []string{"-u"}, all: true},
		{argv: []string{"--update", "offers"}, table: "offers"},
		{argv: []string{"-u", "offers"}, table: "offers"},
		{argv: []string{"--update=currency"}, table: "currency"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			eng := &fakeEngine{}
			_, _, err := runWith(t, eng, "", tt.argv...)
			require.NoError(t, err)
			if tt.all {
				assert.Equal(t, 1, eng.updateAll)
				assert.Empty(t, eng.updated)
			} else {
				assert.Equal(t, []string{tt.table}, eng.updated)
				assert.Zero(t, eng.updateAll)
			}
		})
	}
}

func TestRunUpdateError(t *testing.T) {
	eng := &fakeEngine{updateErr: &syncer.Error{Kind: syncer.KindSchemaDrift, Table: "offers"}}

	_, _, err := runWith(t, eng, "", "-u", "offers")
	assert.ErrorIs(t, err, syncer.ErrSchemaDrift)
}

func TestMenu(t *testing.T) {
	eng := &fakeEngine{}
	stdin := "1\n2\noffers\n4\ncurrency\n9\n3\n0\n"

	out, errw, err := runWith(t, eng, stdin)
	require.NoError(t, err)
	assert.Empty(t, errw)
	assert.Contains(t, out, "Tables: currency, offers")
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "offers"`)
	assert.Contains(t, out, "Updated currency.")
	assert.Contains(t, out, "Unknown option.")
	assert.Contains(t, out, "Updated all.")
	assert.Equal(t, []string{"currency"}, eng.updated)
	assert.Equal(t, 1, eng.updateAll)
}

func TestMenuKeepsRunningAfterError(t *testing.T) {
	eng := &fakeEngine{updateErr: &syncer.Error{Kind: syncer.KindUnknownTable, Table: "shop"}}

	out, errw, err := runWith(t, eng, "4\nshop\n1\n")
	require.NoError(t, err)
	assert.Contains(t, errw, `Таблица "shop" не существует в XML`)
	assert.Contains(t, out, "Tables: currency, offers")
}
