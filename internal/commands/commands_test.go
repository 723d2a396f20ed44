package commands

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub/internal/auth"
)

func validCreateTenant() CreateTenant {
	return CreateTenant{Name: "Acme", Slug: "acme-inc", Plan: "free", TrialDays: 30}
}

func TestCreateTenant_Validate(t *testing.T) {
	require.NoError(t, validCreateTenant().Validate())

	tests := []struct {
		name   string
		mutate func(*CreateTenant)
	}{
		{"missing name", func(c *CreateTenant) { c.Name = "" }},
		{"missing slug", func(c *CreateTenant) { c.Slug = "" }},
		{"uppercase slug", func(c *CreateTenant) { c.Slug = "Acme-Inc" }},
		{"slug with spaces", func(c *CreateTenant) { c.Slug = "acme inc" }},
		{"slug with trailing hyphen", func(c *CreateTenant) { c.Slug = "acme-" }},
		{"unknown plan", func(c *CreateTenant) { c.Plan = "platinum" }},
		{"negative trial", func(c *CreateTenant) { c.TrialDays = -1 }},
		{"trial too long", func(c *CreateTenant) { c.TrialDays = 91 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCreateTenant()
			tt.mutate(&cmd)
			assert.Error(t, cmd.Validate())
		})
	}
}

func TestCreateTenant_Authorize(t *testing.T) {
	cmd := validCreateTenant()

	assert.NoError(t, cmd.Authorize(auth.Principal{Role: auth.RoleAdmin}))
	assert.Error(t, cmd.Authorize(auth.Principal{Role: auth.RoleMember}))
}

func validIngestMessage() IngestMessage {
	return IngestMessage{
		TenantID:        uuid.New(),
		ConversationID:  uuid.New(),
		SenderID:        "telegram:12345",
		Body:            "hello",
		Platform:        "telegram",
		ExternalEventID: "evt-1",
	}
}

func TestIngestMessage_Validate(t *testing.T) {
	require.NoError(t, validIngestMessage().Validate())

	tests := []struct {
		name   string
		mutate func(*IngestMessage)
	}{
		{"missing tenant id", func(c *IngestMessage) { c.TenantID = uuid.Nil }},
		{"missing conversation id", func(c *IngestMessage) { c.ConversationID = uuid.Nil }},
		{"missing sender", func(c *IngestMessage) { c.SenderID = "" }},
		{"missing body", func(c *IngestMessage) { c.Body = "" }},
		{"unknown platform", func(c *IngestMessage) { c.Platform = "carrier-pigeon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validIngestMessage()
			tt.mutate(&cmd)
			assert.Error(t, cmd.Validate())
		})
	}
}

func TestIngestMessage_Authorize(t *testing.T) {
	cmd := validIngestMessage()

	assert.NoError(t, cmd.Authorize(auth.Principal{Role: auth.RoleAdmin}))
	assert.NoError(t, cmd.Authorize(auth.Principal{Role: auth.RoleMember, TenantID: cmd.TenantID}))
	assert.Error(t, cmd.Authorize(auth.Principal{Role: auth.RoleMember, TenantID: uuid.New()}))
}
