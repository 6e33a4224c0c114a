// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - check_run.go: Integrity context model (CheckRun with service_data envelope)
// - journal.go: Compliance context model (Journal directory entry)
// - inbound_email.go: Mailroom context model (InboundEmail)
// - outbox.go: Outbox pattern model for event delivery
package models
