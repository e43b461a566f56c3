package core

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
)

func issueGGO(t *testing.T, ctx *Context, producer ed25519.PublicKey, measurementAddr, ggoAddr string) {
	t.Helper()
	req := IssueGGORequest{Origin: measurementAddr, Destination: ggoAddr}
	h := &IssueGGOHandler{}
	if err := h.Apply(signedTx(producer, "IssueGGORequest", req), ctx); err != nil {
		t.Fatalf("issue ggo: %v", err)
	}
}

func TestSplitGGOChildrenSumToParent(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, child2, _ := ed25519.GenerateKey(nil)
	_, child3, _ := ed25519.GenerateKey(nil)

	ctx, mock := newMockContext()
	measurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 1024)
	parentAddr := DeriveAddress(FamilyGGO, producer)
	issueGGO(t, ctx, producer, measurementAddr, parentAddr)

	addr2 := DeriveAddress(FamilyGGO, child2)
	addr3 := DeriveAddress(FamilyGGO, child3)

	req := SplitGGORequest{
		Origin: parentAddr,
		Parts: []SplitGGOPart{
			{Address: addr2, Amount: 500},
			{Address: addr3, Amount: 524},
		},
	}
	h := &SplitGGOHandler{}
	if err := h.Apply(signedTx(producer, "SplitGGORequest", req), ctx); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var parent GGO
	if err := json.Unmarshal(mock.state[parentAddr], &parent); err != nil {
		t.Fatalf("unmarshal parent: %v", err)
	}
	if parent.Next == nil || parent.Next.Action != ActionSplit || len(parent.Next.Addresses) != 2 {
		t.Fatalf("expected parent.Next to record the split, got %+v", parent.Next)
	}

	var c2, c3 GGO
	_ = json.Unmarshal(mock.state[addr2], &c2)
	_ = json.Unmarshal(mock.state[addr3], &c3)
	if c2.Amount+c3.Amount != 1024 {
		t.Fatalf("expected children to sum to 1024, got %d+%d", c2.Amount, c3.Amount)
	}
	if c2.Sector != parent.Sector || c2.Begin != parent.Begin {
		t.Fatalf("expected child to inherit parent's sector/begin")
	}
}

func TestSplitGGORejectsMismatchedSum(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, child2, _ := ed25519.GenerateKey(nil)
	_, child3, _ := ed25519.GenerateKey(nil)

	ctx, _ := newMockContext()
	measurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 1024)
	parentAddr := DeriveAddress(FamilyGGO, producer)
	issueGGO(t, ctx, producer, measurementAddr, parentAddr)

	req := SplitGGORequest{
		Origin: parentAddr,
		Parts: []SplitGGOPart{
			{Address: DeriveAddress(FamilyGGO, child2), Amount: 1},
			{Address: DeriveAddress(FamilyGGO, child3), Amount: 1},
		},
	}
	h := &SplitGGOHandler{}
	err := h.Apply(signedTx(producer, "SplitGGORequest", req), ctx)
	if err == nil {
		t.Fatalf("expected mismatched sum to be rejected")
	}
}

func TestSplitGGORejectsWrongOwner(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, impostor, _ := ed25519.GenerateKey(nil)
	_, child2, _ := ed25519.GenerateKey(nil)
	_, child3, _ := ed25519.GenerateKey(nil)

	ctx, _ := newMockContext()
	measurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 1024)
	parentAddr := DeriveAddress(FamilyGGO, producer)
	issueGGO(t, ctx, producer, measurementAddr, parentAddr)

	req := SplitGGORequest{
		Origin: parentAddr,
		Parts: []SplitGGOPart{
			{Address: DeriveAddress(FamilyGGO, child2), Amount: 500},
			{Address: DeriveAddress(FamilyGGO, child3), Amount: 524},
		},
	}
	h := &SplitGGOHandler{}
	err := h.Apply(signedTx(impostor, "SplitGGORequest", req), ctx)
	if err == nil {
		t.Fatalf("expected non-owner split to be rejected")
	}
}
