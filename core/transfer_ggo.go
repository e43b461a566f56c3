package core

// TransferGGO — spec.md §4.7.

import "encoding/json"

// TransferGGOHandler creates one successor GGO at a different owner's
// address.
type TransferGGOHandler struct{}

func (h *TransferGGOHandler) FamilyName() string       { return "TransferGGORequest" }
func (h *TransferGGOHandler) FamilyVersions() []string { return []string{FamilyVersion} }
func (h *TransferGGOHandler) Namespaces() []string     { return []string{FamilyPrefix(FamilyGGO)} }

func (h *TransferGGOHandler) Apply(tx *Transaction, ctx *Context) error {
	req, err := decodePayload[TransferGGORequest](tx.Payload)
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

	taken, err := addressesNotEmpty(ctx, req.Destination)
	if err != nil {
		return err
	}
	if taken {
		return Invalid("Destination address not empty")
	}

	child := current.Clone()
	child.Origin = req.Origin
	childData, err := json.Marshal(child)
	if err != nil {
		return Internalf(err)
	}

	current.Next = &GGONext{Action: ActionTransfer, Addresses: []string{req.Destination}}
	parentData, err := json.Marshal(current)
	if err != nil {
		return Internalf(err)
	}

	// The destination GGO's ownership is established only by convention: its
	// address must be the intended new owner's derived GGO address. This
	// handler does not check that — only a future transaction signed by
	// that owner will succeed against it (spec.md §4.7).
	return ctx.Write(map[string][]byte{
		req.Origin:      parentData,
		req.Destination: childData,
	})
}
