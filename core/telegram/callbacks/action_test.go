package callbacks

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Action{Action: ActionEditField, WalletID: 42, Field: "threshold"}
	out, err := Decode(in.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestDecodeTelebotPrefixed(t *testing.T) {
	raw := "\funique|" + Action{Action: ActionWalletDetails, WalletID: 7}.Encode()
	out, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Action != ActionWalletDetails || out.WalletID != 7 {
		t.Fatalf("unexpected action: %+v", out)
	}
}

func TestDecodeRejectsJunk(t *testing.T) {
	for _, raw := range []string{"", "plain text", `{"wallet_id":1}`, "|"} {
		if _, err := Decode(raw); !errors.Is(err, ErrNoAction) {
			t.Fatalf("raw %q: expected ErrNoAction, got %v", raw, err)
		}
	}
}

func TestDecodeOmitsEmptyFields(t *testing.T) {
	encoded := Action{Action: ActionRefreshManage}.Encode()
	if encoded != `{"action":"refresh_manage"}` {
		t.Fatalf("payload must stay compact for the 64-byte limit: %s", encoded)
	}
}
