package command_test

import (
	"testing"

	"github.com/castlet/castlet/internal/testutils"
	"github.com/castlet/castlet/pkg/command"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchNamedAction(t *testing.T) {
	d := command.New()

	var calls [][]any
	d.Register("resize", func(params ...any) {
		calls = append(calls, params)
	})

	d.Handle([]byte(`{"cmd":"resize","params":[800,600]}`))

	require.Len(t, calls, 1)
	assert.Equal(t, []any{float64(800), float64(600)}, calls[0])
}

func TestDispatchDefaultsToEmptyParams(t *testing.T) {
	d := command.New()

	var got []any
	called := false
	d.Register("next", func(params ...any) {
		called = true
		got = params
	})

	d.Handle([]byte(`{"cmd":"next"}`))
	assert.True(t, called)
	assert.Empty(t, got)
}

func TestDispatchUnknownCommandIgnored(t *testing.T) {
	d := command.New()
	d.Register("next", func(params ...any) {
		t.Fatal("wrong action invoked")
	})

	// Must not panic, must not invoke anything.
	d.Handle([]byte(`{"cmd":"teleport"}`))
	d.Handle([]byte(`not json at all`))
	d.Handle([]byte(`{"params":[1]}`))
}

func TestDispatchOpenLoadsContent(t *testing.T) {
	var loaded []string
	d := command.New(command.WithLoader(func(url string) {
		loaded = append(loaded, url)
	}))
	d.Register(domain.CmdOpen, func(params ...any) {
		t.Fatal("open must not reach the action table")
	})

	d.Handle([]byte(`{"cmd":"open","url":"https://host/next-deck"}`))

	require.Len(t, loaded, 1)
	assert.Equal(t, "https://host/next-deck", loaded[0])
}

func TestBindConsumesSessionMessages(t *testing.T) {
	sess := testutils.NewStubSession("https://host/app", domain.StateConnected)

	var calls int
	d := command.New()
	d.Register("prev", func(params ...any) { calls++ })
	d.Bind(sess)

	sess.Deliver([]byte(`{"cmd":"prev"}`))
	assert.Equal(t, 1, calls)
}
