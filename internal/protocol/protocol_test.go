package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spboyer/grader-exec/internal/models"
	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	t.Run("output and hint", func(t *testing.T) {
		req, err := ReadRequest(strings.NewReader(`{"output": "The answer is Paris", "hint": "paris"}`), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, "The answer is Paris", req.Output)
		require.NotNil(t, req.Hint)
		require.Equal(t, "paris", *req.Hint)
	})

	t.Run("missing hint", func(t *testing.T) {
		req, err := ReadRequest(strings.NewReader(`{"output": "anything"}`), ReadOptions{})
		require.NoError(t, err)
		require.Nil(t, req.Hint)
	})

	t.Run("null hint", func(t *testing.T) {
		req, err := ReadRequest(strings.NewReader(`{"output": "", "hint": null}`), ReadOptions{})
		require.NoError(t, err)
		require.Nil(t, req.Hint)
		require.Equal(t, "", req.HintText())
	})

	for _, hint := range []string{`false`, `0`, `0.0`, `""`, `[]`, `{}`} {
		t.Run("falsy hint "+hint, func(t *testing.T) {
			req, err := ReadRequest(strings.NewReader(`{"output": "a", "hint": `+hint+`}`), ReadOptions{})
			require.NoError(t, err)
			require.Equal(t, "", req.HintText())
		})
	}

	t.Run("missing output", func(t *testing.T) {
		req, err := ReadRequest(strings.NewReader(`{"hint": "x"}`), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, "", req.Output)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		req, err := ReadRequest(strings.NewReader(`{"output": "a", "task": {"id": 1}, "score": 3}`), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, "a", req.Output)
	})

	t.Run("within size limit", func(t *testing.T) {
		doc := `{"output": "a"}`
		_, err := ReadRequest(strings.NewReader(doc), ReadOptions{MaxBytes: int64(len(doc))})
		require.NoError(t, err)
	})
}

func TestReadRequest_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    ReadOptions
		wantMsg string
	}{
		{name: "empty input", input: "", wantMsg: "invalid JSON"},
		{name: "not JSON", input: "output=hello", wantMsg: "invalid JSON"},
		{name: "trailing data", input: `{"output": "a"} {}`, wantMsg: "invalid JSON"},
		{name: "array document", input: `["a"]`, wantMsg: "/:"},
		{name: "null document", input: `null`, wantMsg: "/:"},
		{name: "numeric output", input: `{"output": 5}`, wantMsg: "/output"},
		{name: "null output", input: `{"output": null}`, wantMsg: "/output"},
		{name: "numeric hint", input: `{"output": "a", "hint": 1}`, wantMsg: "/hint"},
		{name: "true hint", input: `{"output": "a", "hint": true}`, wantMsg: "/hint"},
		{name: "non-empty array hint", input: `{"output": "a", "hint": ["a"]}`, wantMsg: "/hint"},
		{name: "non-empty object hint", input: `{"output": "a", "hint": {"a": 1}}`, wantMsg: "/hint"},
		{name: "oversize", input: `{"output": "abcdef"}`, opts: ReadOptions{MaxBytes: 4}, wantMsg: "exceeds 4 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ReadRequest(strings.NewReader(tt.input), tt.opts)
			require.Nil(t, req)
			require.Error(t, err)

			var malformed *MalformedInputError
			require.True(t, errors.As(err, &malformed), "expected MalformedInputError, got %T", err)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReadRequest_ReadError(t *testing.T) {
	_, err := ReadRequest(failingReader{}, ReadOptions{})
	require.Error(t, err)

	var malformed *MalformedInputError
	require.False(t, errors.As(err, &malformed))
	require.Contains(t, err.Error(), "boom")
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, models.NewGradeResult(false)))
	require.Equal(t, "{\"pass\": false, \"score\": 0.0, \"reasoning\": \"Missing expected\"}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteResult(&buf, models.NewGradeResult(true)))
	require.Equal(t, "{\"pass\": true, \"score\": 1.0, \"reasoning\": \"Contains expected\"}\n", buf.String())
}

func TestEncodeRequest_RoundTrip(t *testing.T) {
	hint := "WORLD"
	data, err := EncodeRequest(&models.GradeRequest{Output: "Hello World", Hint: &hint})
	require.NoError(t, err)

	req, err := DecodeRequest(data)
	require.NoError(t, err)
	require.Equal(t, "Hello World", req.Output)
	require.Equal(t, "WORLD", req.HintText())
}

func TestDecodeResult(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res, err := DecodeResult([]byte(`{"pass": true, "score": 1.0, "reasoning": "Contains expected"}`))
		require.NoError(t, err)
		require.Equal(t, models.NewGradeResult(true), res)
	})

	t.Run("missing pass", func(t *testing.T) {
		_, err := DecodeResult([]byte(`{"score": 1.0}`))
		require.ErrorContains(t, err, "must have 'pass' and 'score'")
	})

	t.Run("inconsistent score", func(t *testing.T) {
		_, err := DecodeResult([]byte(`{"pass": false, "score": 1.0, "reasoning": "x"}`))
		require.ErrorContains(t, err, "invalid grader result")
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := DecodeResult([]byte(`PASS`))
		require.ErrorContains(t, err, "parsing grader result")
	})
}
