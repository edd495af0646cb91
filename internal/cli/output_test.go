package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
	"github.com/Robaina/JupyterNotebooks/internal/render"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int{"n": 3}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_YAMLError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "yaml", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeConfig, "bad key"))

	var resp Response
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
	assert.Equal(t, "bad key", resp.Error.Message)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("done"))
	require.NoError(t, formatter.Error(ErrCodeIO, "disk full"))
	assert.Equal(t, "done\nError [E_IO]: disk full\n", buf.String())
}

func TestFailComputation(t *testing.T) {
	cases := []struct {
		err      error
		code     string
		exitCode int
	}{
		{numeric.InvalidArgument("op", "n", 0, "bad"), ErrCodeInvalidArgument, ExitCommandError},
		{fmt.Errorf("wrapped: %w", &numeric.DivergenceError{Op: "op", Arg: 1, Iterations: 3}), ErrCodeNumericDivergence, ExitFailure},
		{errors.New("other"), ErrCodeGeneric, ExitFailure},
	}
	for _, tc := range cases {
		buf := &bytes.Buffer{}
		formatter := &OutputFormatter{Format: "json", Writer: buf}

		err := formatter.FailComputation(tc.err)
		assert.Equal(t, tc.exitCode, GetExitCode(err))
		assert.ErrorIs(t, err, tc.err)

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.True(t, exitErr.Reported)

		var resp Response
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, tc.code, resp.Error.Code)
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "usage")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", errors.New("x")))))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(writeFile(t, "roots.yaml", "roots:\n  n: 9\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Roots.N)
	assert.Equal(t, DefaultConfig().Kinetics, cfg.Kinetics)
}

type recordingSink struct {
	figures []render.Figure
	err     error
}

func (s *recordingSink) Render(fig render.Figure) error {
	s.figures = append(s.figures, fig)
	return s.err
}

func TestSinkOptions_EmitTo(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table, err := render.NewTable([]string{"t"}, []float64{0, 1})
	require.NoError(t, err)
	fig := render.Figure{Title: "S(t)", Series: []render.Series{{Label: "S", X: []float64{0, 1}, Y: []float64{1, 0}}}}

	sink := &recordingSink{}
	require.NoError(t, SinkOptions{}.emitTo(logger, table, fig, sink))
	assert.Empty(t, sink.figures)

	require.NoError(t, SinkOptions{PlotOut: "s.png"}.emitTo(logger, table, fig, sink))
	require.Len(t, sink.figures, 1)
	assert.Equal(t, "S(t)", sink.figures[0].Title)

	sink.err = errors.New("disk full")
	assert.EqualError(t, SinkOptions{PlotOut: "s.png"}.emitTo(logger, table, fig, sink), "disk full")
}
