package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func decode(t *testing.T, buf *bytes.Buffer) Result {
	t.Helper()
	var r Result
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	return r
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, "quote", map[string]int{"sheets": 9}); err != nil {
		t.Fatal(err)
	}
	r := decode(t, &buf)
	if !r.OK || r.Command != "quote" || r.Error != "" || r.Code != 0 {
		t.Errorf("unexpected envelope: %+v", r)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"details"`)) {
		t.Error("success envelope should omit details")
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONError(&buf, "generate", errors.New("disk full"), ExitSystemError); err != nil {
		t.Fatal(err)
	}
	r := decode(t, &buf)
	if r.OK || r.Error != "disk full" || r.Code != ExitSystemError || len(r.Details) != 0 {
		t.Errorf("unexpected envelope: %+v", r)
	}
}

func TestWriteJSONErrorDetails(t *testing.T) {
	agg := multierror.Append(nil, errors.New(`date "soon": invalid date`), errors.New("commodities: missing"))
	err := fmt.Errorf("invalid project in p.docx: %w", agg)

	var buf bytes.Buffer
	if err := WriteJSONError(&buf, "generate", err, ExitUserError); err != nil {
		t.Fatal(err)
	}
	r := decode(t, &buf)
	if len(r.Details) != 2 || r.Details[1] != "commodities: missing" {
		t.Errorf("details = %q", r.Details)
	}
}
