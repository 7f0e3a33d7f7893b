package main

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCommand opens two resources in its pre-run and fails wherever asked
func testCommand(released *[]string, preRunErr, runErr error) *cobra.Command {
	root := &cobra.Command{
		Use:           "test",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closers = append(closers, func() { *released = append(*released, "store") })
			closers = append(closers, func() { *released = append(*released, "search") })
			return preRunErr
		},
	}
	root.AddCommand(&cobra.Command{
		Use:  "run",
		RunE: func(cmd *cobra.Command, args []string) error { return runErr },
	})
	root.SetArgs([]string{"run"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root
}

func TestExecuteReleasesResources(t *testing.T) {
	errPreRun := errors.New("search index locked")
	errRun := errors.New("collection not found")

	tests := []struct {
		name      string
		preRunErr error
		runErr    error
	}{
		{"success", nil, nil},
		{"command fails", nil, errRun},
		{"pre-run fails after opening", errPreRun, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { closers = nil })
			var released []string

			err := execute(testCommand(&released, tt.preRunErr, tt.runErr))

			switch {
			case tt.preRunErr != nil:
				require.ErrorIs(t, err, tt.preRunErr)
			case tt.runErr != nil:
				require.ErrorIs(t, err, tt.runErr)
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, []string{"search", "store"}, released)
			assert.Empty(t, closers)
		})
	}
}

func TestCloseAllIsIdempotent(t *testing.T) {
	t.Cleanup(func() { closers = nil })
	calls := 0
	closers = append(closers, func() { calls++ })

	closeAll()
	closeAll()

	assert.Equal(t, 1, calls)
}
