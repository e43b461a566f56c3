package core

// SplitGGO — spec.md §4.6.

import "encoding/json"

// SplitGGOHandler replaces one GGO with N successor GGOs whose amounts sum
// to the original.
type SplitGGOHandler struct{}

func (h *SplitGGOHandler) FamilyName() string       { return "SplitGGORequest" }
func (h *SplitGGOHandler) FamilyVersions() []string { return []string{FamilyVersion} }
func (h *SplitGGOHandler) Namespaces() []string     { return []string{FamilyPrefix(FamilyGGO)} }

func (h *SplitGGOHandler) Apply(tx *Transaction, ctx *Context) error {
	req, err := decodePayload[SplitGGORequest](tx.Payload)
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

	destinations := make([]string, 0, len(req.Parts))
	for _, part := range req.Parts {
		destinations = append(destinations, part.Address)
	}
	taken, err := addressesNotEmpty(ctx, destinations...)
	if err != nil {
		return err
	}
	if taken {
		return Invalid("Destination address not empty")
	}

	var sum uint64
	for _, part := range req.Parts {
		sum += part.Amount
	}
	if sum != current.Amount {
		return Invalid("The sum of the parts does not equal the whole")
	}

	updates := make(map[string][]byte, len(req.Parts)+1)
	nextAddrs := make([]string, 0, len(req.Parts))
	for _, part := range req.Parts {
		child := current.Clone()
		child.Origin = req.Origin
		child.Amount = part.Amount
		data, err := json.Marshal(child)
		if err != nil {
			return Internalf(err)
		}
		updates[part.Address] = data
		nextAddrs = append(nextAddrs, part.Address)
	}

	current.Next = &GGONext{Action: ActionSplit, Addresses: nextAddrs}
	parentData, err := json.Marshal(current)
	if err != nil {
		return Internalf(err)
	}
	updates[req.Origin] = parentData

	return ctx.Write(updates)
}
