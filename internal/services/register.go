package services

import (
	"chathub/internal/commands"
	"chathub/internal/dispatch"
	"chathub/internal/queries"
)

// RegisterHandlers wires every command and query onto the bus. This runs
// once at startup; a duplicate or missing registration is caught here or
// on first dispatch, not at runtime under load.
func RegisterHandlers(bus *dispatch.Bus, tenants *TenantService, messages *MessageService) {
	bus.RegisterCommand(commands.CreateTenant{}.CommandType(), tenants.CreateTenant)
	bus.RegisterCommand(commands.IngestMessage{}.CommandType(), messages.IngestMessage)

	bus.RegisterQuery(queries.GetTenant{}.QueryType(), tenants.GetTenant)
}
