package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAll_ProcessesEverything(t *testing.T) {
	elements := []string{"A", "B", "C", "D"}
	batch, err := All(context.Background(), elements,
		ProcessorFunc[string](func(context.Context, string) error { return nil }))
	require.NoError(t, err)
	require.ElementsMatch(t, elements, batch)
}

func TestAll_EmptyInput(t *testing.T) {
	batch, err := All(context.Background(), nil,
		ProcessorFunc[string](func(context.Context, string) error { return nil }))
	require.NoError(t, err)
	require.Empty(t, batch)
}

func TestAll_JoinsProcessErrors(t *testing.T) {
	boom := errors.New("boom")
	batch, err := All(context.Background(), []string{"A", "B"},
		ProcessorFunc[string](func(_ context.Context, el string) error {
			if el == "A" {
				return boom
			}
			return nil
		}))
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"B"}, batch)

	el, ok := ExtractElement[string](err)
	require.True(t, ok)
	require.Equal(t, "A", el)
}

func TestAll_InvalidOption(t *testing.T) {
	_, err := All(context.Background(), []string{"A"},
		ProcessorFunc[string](func(context.Context, string) error { return nil }),
		WithRetry(0))
	require.ErrorIs(t, err, ErrInvalidConfig)
}
