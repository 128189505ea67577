package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/regroup/internal/domain"
	domainmocks "gooze.dev/pkg/regroup/internal/domain/mocks"
	m "gooze.dev/pkg/regroup/internal/model"
)

func TestListCmd(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.PersistentPreRun = nil

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("List", mock.Anything, domain.ListArgs{
		Path:    m.Path("registry.ts"),
		Mapping: m.Path("groups.yaml"),
		Fields:  m.DefaultFieldNames(),
	}).Return(nil)

	cmd.SetArgs([]string{"list", "--mapping", "groups.yaml", "registry.ts"})
	require.NoError(t, cmd.Execute())
}

func TestListCmd_TooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.PersistentPreRun = nil

	cmd.SetArgs([]string{"list", "a.ts", "b.ts"})
	require.Error(t, cmd.Execute())
}
