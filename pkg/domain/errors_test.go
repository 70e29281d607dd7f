package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationFailed_CarriesEngineDiagnostic(t *testing.T) {
	fault := &domain.EngineFault{Method: "Profile.End", Message: "profile is not closed", Diagnostic: "HRESULT 0x80004005"}
	err := domain.OperationFailed(fmt.Errorf("close sketch: %w", fault))

	require.NotNil(t, err)
	assert.Equal(t, domain.KindOperationFailed, err.Kind)
	assert.Equal(t, "Profile.End: profile is not closed", err.Message)
	assert.Equal(t, "HRESULT 0x80004005", err.Detail)
	assert.ErrorIs(t, err, fault)
}

func TestOperationFailed_KeepsClassifiedErrors(t *testing.T) {
	original := domain.NewError(domain.KindNoOpenSketch, "no open sketch")
	err := domain.OperationFailed(fmt.Errorf("draw: %w", original))

	assert.Same(t, original, err)
	assert.Nil(t, domain.OperationFailed(nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, domain.Kind(""), domain.KindOf(nil))
	assert.Equal(t, domain.KindOperationFailed, domain.KindOf(errors.New("boom")))
	assert.Equal(t, domain.KindMissingParameter, domain.KindOf(domain.Errorf(domain.KindMissingParameter, "missing %q", "distance")))
	assert.True(t, domain.IsKind(domain.NewError(domain.KindNotConnected, ""), domain.KindNotConnected))
	assert.Equal(t, "NotConnected", domain.NewError(domain.KindNotConnected, "").Error())
}

func TestParseDocumentKind(t *testing.T) {
	cases := map[string]domain.DocumentKind{
		"part":        domain.DocumentPart,
		"Part":        domain.DocumentPart,
		"SheetMetal":  domain.DocumentSheetMetal,
		"sheet-metal": domain.DocumentSheetMetal,
		"drawing":     domain.DocumentDraft,
	}
	for in, want := range cases {
		got, err := domain.ParseDocumentKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseDocumentKind("spreadsheet")
	assert.Error(t, err)
}
