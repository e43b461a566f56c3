package core

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
)

func splitOneOf(t *testing.T, ctx *Context, producer ed25519.PublicKey, parentAddr string, child2, child3 ed25519.PublicKey) (string, string) {
	t.Helper()
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
		t.Fatalf("split: %v", err)
	}
	return addr2, addr3
}

func TestTransferGGOCreatesSuccessorAndConsumesParent(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, child2, _ := ed25519.GenerateKey(nil)
	_, child3, _ := ed25519.GenerateKey(nil)
	_, newOwner, _ := ed25519.GenerateKey(nil)

	ctx, mock := newMockContext()
	measurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 1024)
	parentAddr := DeriveAddress(FamilyGGO, producer)
	issueGGO(t, ctx, producer, measurementAddr, parentAddr)
	addr2, _ := splitOneOf(t, ctx, producer, parentAddr, child2, child3)

	destAddr := DeriveAddress(FamilyGGO, newOwner)
	req := TransferGGORequest{Origin: addr2, Destination: destAddr}
	h := &TransferGGOHandler{}
	if err := h.Apply(signedTx(child2, "TransferGGORequest", req), ctx); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	var parent, dest GGO
	_ = json.Unmarshal(mock.state[addr2], &parent)
	_ = json.Unmarshal(mock.state[destAddr], &dest)
	if parent.Next == nil || parent.Next.Action != ActionTransfer || parent.Next.Addresses[0] != destAddr {
		t.Fatalf("expected origin's Next to record the transfer, got %+v", parent.Next)
	}
	if dest.Amount != 500 || dest.Next != nil {
		t.Fatalf("unexpected destination GGO: %+v", dest)
	}
}

func TestTransferGGORejectsDoubleSpend(t *testing.T) {
	_, producer, _ := ed25519.GenerateKey(nil)
	_, child2, _ := ed25519.GenerateKey(nil)
	_, child3, _ := ed25519.GenerateKey(nil)
	_, newOwner, _ := ed25519.GenerateKey(nil)
	_, secondOwner, _ := ed25519.GenerateKey(nil)

	ctx, _ := newMockContext()
	measurementAddr := publishMeasurement(t, ctx, producer, MeasurementProduction, 1024)
	parentAddr := DeriveAddress(FamilyGGO, producer)
	issueGGO(t, ctx, producer, measurementAddr, parentAddr)
	addr2, _ := splitOneOf(t, ctx, producer, parentAddr, child2, child3)

	h := &TransferGGOHandler{}
	first := TransferGGORequest{Origin: addr2, Destination: DeriveAddress(FamilyGGO, newOwner)}
	if err := h.Apply(signedTx(child2, "TransferGGORequest", first), ctx); err != nil {
		t.Fatalf("first transfer: %v", err)
	}

	second := TransferGGORequest{Origin: addr2, Destination: DeriveAddress(FamilyGGO, secondOwner)}
	err := h.Apply(signedTx(child2, "TransferGGORequest", second), ctx)
	if err == nil {
		t.Fatalf("expected second transfer of an already-used GGO to fail")
	}
}
