package models

import "fmt"

// RefKind discriminates the three ways a caller may identify a contract.
type RefKind int

const (
	// RefByKey targets the registry record for a key.
	RefByKey RefKind = iota

	// RefByKeyAt reuses a key's interface at a different address. The
	// address may itself be another registry key.
	RefByKeyAt

	// RefByInstance targets an already-bound instance.
	RefByInstance
)

// ContractRef is a polymorphic contract reference: a registry key, a
// (key, address-or-key) pair, or a bound instance.
type ContractRef struct {
	kind     RefKind
	key      string
	at       string
	instance Instance
}

// KeyRef references the registry record for key.
func KeyRef(key string) ContractRef {
	return ContractRef{kind: RefByKey, key: key}
}

// KeyAtRef references key's interface bound at a different location.
// addressOrKey is either a hex address or another registry key whose
// deployed address is used.
func KeyAtRef(key, addressOrKey string) ContractRef {
	return ContractRef{kind: RefByKeyAt, key: key, at: addressOrKey}
}

// InstanceRef references an already-bound instance.
func InstanceRef(inst Instance) ContractRef {
	return ContractRef{kind: RefByInstance, instance: inst}
}

func (r ContractRef) Kind() RefKind      { return r.kind }
func (r ContractRef) Key() string        { return r.key }
func (r ContractRef) At() string         { return r.at }
func (r ContractRef) Instance() Instance { return r.instance }

func (r ContractRef) String() string {
	switch r.kind {
	case RefByKey:
		return r.key
	case RefByKeyAt:
		return fmt.Sprintf("%s@%s", r.key, r.at)
	default:
		if r.instance != nil {
			return fmt.Sprintf("instance@%s", r.instance.Address().Hex())
		}
		return "instance"
	}
}
