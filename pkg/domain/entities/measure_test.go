package entities

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMeasure_UndefinedIsNotZero(t *testing.T) {
	if Undefined == Known(0) {
		t.Error("Undefined must differ from a computed zero")
	}
	if Known(0).Positive() || Undefined.Positive() || Known(math.NaN()).Positive() {
		t.Error("Zero, undefined and NaN measures are not positive")
	}
	if !Known(0.001).Positive() {
		t.Error("Expected small positive measure to be positive")
	}
	if Undefined.Or(7) != 7 || Known(3).Or(7) != 3 {
		t.Error("Unexpected Or fallback behaviour")
	}
}

func TestMeasure_JSON(t *testing.T) {
	type payload struct {
		Weight Measure `json:"weight"`
		Pieces Count   `json:"pieces"`
	}

	data, err := json.Marshal(payload{Weight: Known(1.5)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"weight":1.5,"pieces":null}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var decoded payload
	if err := json.Unmarshal([]byte(`{"weight":null,"pieces":12}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Weight.Valid || decoded.Pieces != KnownCount(12) {
		t.Errorf("Unexpected decoded payload %+v", decoded)
	}
}
