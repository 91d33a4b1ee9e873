package models

import (
	"encoding/json"
	"testing"
)

func TestTransferState_String(t *testing.T) {
	tests := []struct {
		state TransferState
		want  string
	}{
		{TransferPending, "pending"},
		{TransferRunning, "running"},
		{TransferSucceeded, "succeeded"},
		{TransferFailed, "failed"},
		{TransferState(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("TransferState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestTransferState_IsTerminal(t *testing.T) {
	if TransferPending.IsTerminal() || TransferRunning.IsTerminal() {
		t.Error("pending and running must not be terminal")
	}
	if !TransferSucceeded.IsTerminal() || !TransferFailed.IsTerminal() {
		t.Error("succeeded and failed must be terminal")
	}
}

func TestTransferState_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		State TransferState `json:"state"`
	}{State: TransferSucceeded})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"state":"succeeded"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestFlexInt64_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"number", `123`, 123, false},
		{"numeric string", `"2048"`, 2048, false},
		{"float", `1024.7`, 1024, false},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"garbage", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt64
			err := f.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if int64(f) != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %d, want %d", tt.input, f, tt.want)
			}
		})
	}
}

func TestProviderResponse_Decode(t *testing.T) {
	body := `{"title":"t","duration":"00:44","medias":[{"url":"a","quality":"hd","extension":"mp4","size":"10","videoAvailable":true}]}`

	var resp ProviderResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(resp.Medias) != 1 {
		t.Fatalf("Expected 1 media, got %d", len(resp.Medias))
	}
	m := resp.Medias[0]
	if m.Size == nil || int64(*m.Size) != 10 {
		t.Errorf("Expected size 10, got %v", m.Size)
	}
	if !m.VideoAvailable || m.AudioAvailable {
		t.Errorf("Unexpected availability flags: video=%v audio=%v", m.VideoAvailable, m.AudioAvailable)
	}
}
