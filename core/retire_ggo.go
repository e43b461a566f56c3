package core

// RetireGGO — spec.md §4.8.

import "encoding/json"

// RetireGGOHandler marks a GGO as retired toward a settlement address. It
// does not create or mutate the Settlement itself — that two-phase split
// lets many retirements accumulate against one settlement without
// contending on the settlement's address (spec.md §4.8).
type RetireGGOHandler struct{}

func (h *RetireGGOHandler) FamilyName() string       { return "RetireGGORequest" }
func (h *RetireGGOHandler) FamilyVersions() []string { return []string{FamilyVersion} }
func (h *RetireGGOHandler) Namespaces() []string     { return []string{FamilyPrefix(FamilyGGO)} }

func (h *RetireGGOHandler) Apply(tx *Transaction, ctx *Context) error {
	req, err := decodePayload[RetireGGORequest](tx.Payload)
	if err != nil {
		return err
	}

	current, err := fetchGGO(ctx, req.Origin)
	if err != nil {
		return err
	}
	if !current.Live() {
		return Invalid("GGO already has been used")
	}

	signer, err := decodeSignerPublicKey(tx.Header.SignerPublicKey)
	if err != nil {
		return Internalf(err)
	}
	if !CheckOwner(req.Origin, FamilyGGO, signer) {
		return Invalid("Invalid key for GGO")
	}

	current.Next = &GGONext{Action: ActionRetire, Addresses: []string{req.SettlementAddress}}
	data, err := json.Marshal(current)
	if err != nil {
		return Internalf(err)
	}
	return ctx.Write(map[string][]byte{req.Origin: data})
}
