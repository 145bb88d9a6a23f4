package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValueError(t *testing.T) {
	err := NewValueError("NewGaussian", "link must not be nil")

	want := "glmgo: NewGaussian: link must not be nil"
	assert.Equal(t, want, err.Error())

	var valErr *ValueError
	require.True(t, As(err, &valErr), "error should be castable to *ValueError")
	assert.Equal(t, "NewGaussian", valErr.Op)

	// Stack trace is attached by cockroachdb/errors.
	formatted := fmt.Sprintf("%+v", err)
	assert.True(t, strings.Contains(formatted, "errors_test.go"),
		"expected stack trace to contain the test file name")
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("link", "not in the allowed set [Log Identity]", "Logit")

	assert.Equal(t,
		"glmgo: validation failed for parameter 'link': not in the allowed set [Log Identity] (got: Logit)",
		err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "link", valErr.ParamName)
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Deviance", 7, 5, 0)

	want := "glmgo: Deviance: dimension mismatch on axis 0 (rows). Expected 7, got 5"
	assert.Equal(t, want, err.Error())
}

func TestNumericalInstabilityErrorTruncatesValues(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7}
	err := NewNumericalInstabilityError("deviance", vals, 3)

	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Contains(t, err.Error(), "iteration 3")
	assert.Contains(t, err.Error(), "...")
}

func TestCheckNumericalStability(t *testing.T) {
	require.NoError(t, CheckNumericalStability("weights", []float64{1, 2, 3}, 0))
	require.Error(t, CheckNumericalStability("weights", []float64{1, math.NaN()}, 0))
	require.Error(t, CheckScalar("deviance", math.Inf(1), 2))
	require.NoError(t, CheckScalar("deviance", 0.5, 2))
}

func TestWarnHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("loglike", "quasi-likelihood is not a true likelihood", math.NaN())
	Warn(w)

	require.NotNil(t, got)
	assert.Contains(t, got.Error(), "loglike")
}

func TestClipValue(t *testing.T) {
	assert.Equal(t, 0.0, ClipValue(-1, 0, 1))
	assert.Equal(t, 1.0, ClipValue(2, 0, 1))
	assert.Equal(t, 0.5, ClipValue(0.5, 0, 1))
}
