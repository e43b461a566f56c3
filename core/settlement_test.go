package core

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
)

// TestRetireThenSettle walks spec.md §8's literal end-to-end scenario steps
// 6-7: retire a transferred GGO against a settlement, settle it, then check
// the over-retire rejection.
func TestRetireThenSettle(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, child2, _ := ed25519.GenerateKey(nil)
	_, child3, _ := ed25519.GenerateKey(nil)
	_, owner4, _ := ed25519.GenerateKey(nil)
	_, consumer, _ := ed25519.GenerateKey(nil)

	ctx, mock := newMockContext()
	prodMeasurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 1024)
	parentAddr := DeriveAddress(FamilyGGO, producer)
	issueGGO(t, ctx, producer, prodMeasurementAddr, parentAddr)
	addr2, _ := splitOneOf(t, ctx, producer, parentAddr, child2, child3)

	addr4 := DeriveAddress(FamilyGGO, owner4)
	transferH := &TransferGGOHandler{}
	transferReq := TransferGGORequest{Origin: addr2, Destination: addr4}
	if err := transferH.Apply(signedTx(child2, "TransferGGORequest", transferReq), ctx); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	consMeasurementAddr := publishMeasurement(t, ctx, consumer, MeasurementConsumption, 500)
	settlementAddr := DeriveAddress(FamilySettlement, consumer)

	retireH := &RetireGGOHandler{}
	retireReq := RetireGGORequest{Origin: addr4, SettlementAddress: settlementAddr}
	if err := retireH.Apply(signedTx(owner4, "RetireGGORequest", retireReq), ctx); err != nil {
		t.Fatalf("retire: %v", err)
	}

	settleH := &SettlementHandler{}
	settleReq := SettlementRequest{
		SettlementAddress:  settlementAddr,
		MeasurementAddress: consMeasurementAddr,
		GGOAddresses:       []string{addr4},
	}
	if err := settleH.Apply(signedTx(consumer, "SettlementRequest", settleReq), ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}

	var settlement Settlement
	if err := json.Unmarshal(mock.state[settlementAddr], &settlement); err != nil {
		t.Fatalf("unmarshal settlement: %v", err)
	}
	if settlement.Measurement != consMeasurementAddr {
		t.Fatalf("expected settlement bound to %s, got %s", consMeasurementAddr, settlement.Measurement)
	}
	if settlement.TotalAmount() != 500 {
		t.Fatalf("expected total 500, got %d", settlement.TotalAmount())
	}

	// Over-retire: a second GGO against the same, now-exhausted settlement.
	_, producer2, _ := ed25519.GenerateKey(nil)
	_, owner5, _ := ed25519.GenerateKey(nil)
	addr5 := DeriveAddress(FamilyGGO, owner5)
	measurementAddr2 := publishMeasurement(t, ctx, producer2, MeasurementProduction, 1024)
	issueGGO(t, ctx, producer2, measurementAddr2, addr5)
	retireReq2 := RetireGGORequest{Origin: addr5, SettlementAddress: settlementAddr}
	if err := retireH.Apply(signedTx(owner5, "RetireGGORequest", retireReq2), ctx); err != nil {
		t.Fatalf("retire second ggo: %v", err)
	}
	overSettleReq := SettlementRequest{
		SettlementAddress:  settlementAddr,
		MeasurementAddress: consMeasurementAddr,
		GGOAddresses:       []string{addr5},
	}
	err := settleH.Apply(signedTx(consumer, "SettlementRequest", overSettleReq), ctx)
	if err == nil {
		t.Fatalf("expected over-retire to be rejected")
	}
	inv, ok := err.(*InvalidTransactionError)
	if !ok || inv.Message != "Invalid to retire more that measurement amount" {
		t.Fatalf("expected fixed over-retire message, got %v", err)
	}
}

func TestSettlementRejectsDuplicateGGO(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, owner, _ := ed25519.GenerateKey(nil)
	_, consumer, _ := ed25519.GenerateKey(nil)

	ctx, _ := newMockContext()
	measurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 100)
	ggoAddr := DeriveAddress(FamilyGGO, owner)
	issueGGO(t, ctx, producer, measurementAddr, ggoAddr)

	consMeasurementAddr := publishMeasurement(t, ctx, consumer, MeasurementConsumption, 100)
	settlementAddr := DeriveAddress(FamilySettlement, consumer)

	retireH := &RetireGGOHandler{}
	if err := retireH.Apply(signedTx(owner, "RetireGGORequest", RetireGGORequest{Origin: ggoAddr, SettlementAddress: settlementAddr}), ctx); err != nil {
		t.Fatalf("retire: %v", err)
	}

	settleH := &SettlementHandler{}
	req := SettlementRequest{SettlementAddress: settlementAddr, MeasurementAddress: consMeasurementAddr, GGOAddresses: []string{ggoAddr, ggoAddr}}
	err := settleH.Apply(signedTx(consumer, "SettlementRequest", req), ctx)
	if err == nil {
		t.Fatalf("expected duplicate GGO in one settlement request to be rejected")
	}
}
