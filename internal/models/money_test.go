package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyArithmeticIsExact(t *testing.T) {
	total := ZeroMoney()
	for i := 0; i < 10; i++ {
		total = total.Add(MustMoney("0.10"))
	}
	if total.String() != "1.00" {
		t.Fatalf("ten dimes should be 1.00, got %s", total.String())
	}
	if got := MustMoney("19.99").MulQuantity(3).String(); got != "59.97" {
		t.Fatalf("unexpected line total: %s", got)
	}
	if !MustMoney("2.5").Equal(MustMoney("2.50")) {
		t.Fatalf("2.5 and 2.50 should be equal")
	}
}

func TestMoneyJSON(t *testing.T) {
	body, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: MustMoney("7")})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(body) != `{"price":"7.00"}` {
		t.Fatalf("unexpected json: %s", body)
	}

	var decoded struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"-1.505","b":12.3}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.A.String() != "-1.51" || decoded.B.String() != "12.30" {
		t.Fatalf("unexpected values: %s %s", decoded.A.String(), decoded.B.String())
	}
	if err := json.Unmarshal([]byte(`{"a":"abc"}`), &decoded); err == nil {
		t.Fatalf("invalid amount should fail")
	}
}
