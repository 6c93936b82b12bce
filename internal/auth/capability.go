package auth

import "context"

// Capability is what the sender of an update is allowed to do.
type Capability struct {
	UserID int64
	Admin  bool
}

type capabilityKey struct{}

func WithCapability(ctx context.Context, c Capability) context.Context {
	return context.WithValue(ctx, capabilityKey{}, c)
}

// CapabilityFrom returns the capability stored in ctx. Without one, the zero Capability (no admin rights) is returned.
func CapabilityFrom(ctx context.Context) Capability {
	c, _ := ctx.Value(capabilityKey{}).(Capability)
	return c
}
