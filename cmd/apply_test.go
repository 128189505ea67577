package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/regroup/internal/domain"
	domainmocks "gooze.dev/pkg/regroup/internal/domain/mocks"
	m "gooze.dev/pkg/regroup/internal/model"
)

func newApplyTestCmd(t *testing.T) (*domainmocks.MockWorkflow, func(args ...string) error) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newApplyCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.PersistentPreRun = nil

	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow, func(args ...string) error {
		cmd.SetArgs(append([]string{"apply"}, args...))
		return cmd.Execute()
	}
}

func TestApplyCmd_Defaults(t *testing.T) {
	mockWorkflow, run := newApplyTestCmd(t)

	mockWorkflow.On("Apply", mock.Anything, mock.MatchedBy(func(args domain.ApplyArgs) bool {
		return len(args.Paths) == 1 &&
			args.Paths[0] == m.Path(defaultTargetFile) &&
			args.Mapping == "" &&
			args.Parallel == 1 &&
			!args.DryRun && !args.Check && !args.Strict && !args.Confirm &&
			args.Fields == m.DefaultFieldNames()
	})).Return(nil, nil)

	require.NoError(t, run())
}

func TestApplyCmd_Flags(t *testing.T) {
	mockWorkflow, run := newApplyTestCmd(t)

	mockWorkflow.On("Apply", mock.Anything, mock.MatchedBy(func(args domain.ApplyArgs) bool {
		return len(args.Paths) == 2 &&
			args.Paths[0] == m.Path("a.ts") &&
			args.Paths[1] == m.Path("b.ts") &&
			args.Mapping == m.Path("groups.yaml") &&
			args.Parallel == 4 &&
			args.Strict &&
			args.DryRun
	})).Return(nil, nil)

	require.NoError(t, run("-m", "groups.yaml", "-p", "4", "--strict", "--dry-run", "a.ts", "b.ts"))
}

func TestApplyCmd_Check(t *testing.T) {
	mockWorkflow, run := newApplyTestCmd(t)

	mockWorkflow.On("Apply", mock.Anything, mock.MatchedBy(func(args domain.ApplyArgs) bool {
		return args.Check
	})).Return(nil, domain.ErrDriftDetected)

	err := run("--check")
	require.ErrorIs(t, err, domain.ErrDriftDetected)
}

func TestApplyCmd_ExclusiveModes(t *testing.T) {
	_, run := newApplyTestCmd(t)

	err := run("--check", "--dry-run")
	require.Error(t, err)
}

func TestApplyCmd_PropagatesErrors(t *testing.T) {
	mockWorkflow, run := newApplyTestCmd(t)

	mockWorkflow.On("Apply", mock.Anything, mock.Anything).Return(nil, errors.New("failed to write features.ts"))

	err := run("features.ts")
	require.EqualError(t, err, "failed to write features.ts")
}
