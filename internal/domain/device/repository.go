package device

import "context"

type Repository interface {
	// Upsert writes the registration keyed by device id. An existing row
	// keeps its original CreatedAt; UpdatedAt is always refreshed.
	Upsert(ctx context.Context, r *Registration) error
	GetByDeviceID(ctx context.Context, deviceID string) (*Registration, error)
	FindBySerial(ctx context.Context, serialNumber string) ([]*Registration, error)
	// FindByDeviceAndPassType lists the registrations a device polls for.
	FindByDeviceAndPassType(ctx context.Context, deviceID, passTypeIdentifier string) ([]*Registration, error)
}
