package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/entitystore"
	"github.com/SystemBuilders/CelLock/internal/lock"
)

// StateMachine applies status transitions to received messages and
// carries out the relation/role side effects of an approval. One
// instance serves one cell.
type StateMachine struct {
	locks  *lock.Manager
	store  entitystore.Store
	cells  entitystore.Resolver
	cellID string
	now    func() time.Time
	log    zerolog.Logger
}

// NewStateMachine wires the state machine for a cell.
func NewStateMachine(locks *lock.Manager, store entitystore.Store, cells entitystore.Resolver, cellID string, log zerolog.Logger) *StateMachine {
	return &StateMachine{
		locks:  locks,
		store:  store,
		cells:  cells,
		cellID: cellID,
		now:    time.Now,
		log:    log,
	}
}

// ChangeStatusAndUpdateRelation moves the message under messageKey to
// target and, for an approved request, registers or deletes the
// relation it carries. Concurrent resolutions of the same message
// serialise on a lock scoped to the message key; the lock is released
// on every exit path. The returned etag reflects the new stored
// version.
func (s *StateMachine) ChangeStatusAndUpdateRelation(ctx context.Context, messageKey string, target Status) (string, error) {
	l, err := s.locks.Acquire(ctx, lock.OData, s.cellID, "", messageKey)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := s.locks.Release(ctx, l); err != nil {
			s.
				log.
				Error().
				Str("key", l.FullKey).
				Err(err).
				Msg("failed to release message lock")
		}
	}()

	doc, err := s.store.Get(ctx, EntityReceivedMessage, messageKey)
	if err != nil {
		return "", err
	}

	typ := Type(doc.Fields[FieldType])
	current := Status(doc.Fields[FieldStatus])
	if err := ValidateTransition(typ, current, target); err != nil {
		return "", err
	}

	if typ.IsRequest() && target == StatusApproved {
		if err := s.applyRelationChange(ctx, doc, typ); err != nil {
			return "", err
		}
	}

	doc.Fields[FieldStatus] = string(target)
	doc.Updated = s.now()
	newVersion, err := s.store.Update(ctx, doc, doc.Version)
	if err != nil {
		return "", err
	}
	s.
		log.
		Debug().
		Str("message", messageKey).
		Str("status", string(target)).
		Int64("version", newVersion).
		Msg("message status changed")
	return fmt.Sprintf("%d-%d", newVersion, doc.Updated.UnixMilli()), nil
}

// applyRelationChange resolves the request's relation name, box and
// external cell, then creates or removes the link.
func (s *StateMachine) applyRelationChange(ctx context.Context, doc *entitystore.Document, typ Type) error {
	ref, err := parseReference(typ, doc.Fields[FieldRequestRelation])
	if err != nil {
		return err
	}

	boxName := doc.Fields[FieldBoxName]
	if ref.classURL {
		box, err := s.cells.ResolveBoxBySchemaURL(ctx, s.cellID, ref.schemaURL)
		if err != nil {
			return err
		}
		if box == "" {
			return fmt.Errorf("%w: %q", ErrNoBoxForClassURL, ref.schemaURL)
		}
		boxName = box
	}

	rawTarget := doc.Fields[FieldRequestRelationTarget]
	if rawTarget == "" {
		return fmt.Errorf("%w: empty request relation target", ErrMalformedReference)
	}
	extCellURL := canonicalCellURL(rawTarget)

	entityType := EntityRelation
	if typ.isRole() {
		entityType = EntityRole
	}
	entityKey := entityStoreKey(boxName, ref.name)

	if typ.isBuild() {
		return s.registerRelation(ctx, entityType, entityKey, boxName, ref.name, extCellURL)
	}
	return s.deleteRelation(ctx, entityType, entityKey, extCellURL)
}

// entityStoreKey composes the store key for a box-scoped Relation or
// Role name.
func entityStoreKey(boxName, name string) string {
	if boxName == "" {
		return name
	}
	return boxName + ":" + name
}

// registerRelation creates the Relation/Role and ExtCell entities when
// missing and links them. An existing link is an error.
func (s *StateMachine) registerRelation(ctx context.Context, entityType, entityKey, boxName, name, extCellURL string) error {
	if err := s.ensureEntity(ctx, entityType, entityKey, map[string]string{
		FieldName:    name,
		FieldBoxName: boxName,
	}); err != nil {
		return err
	}
	if err := s.ensureEntity(ctx, EntityExtCell, extCellURL, map[string]string{
		FieldURL: extCellURL,
	}); err != nil {
		return err
	}
	err := s.store.CreateLink(ctx,
		entitystore.Ref{Type: entityType, Key: entityKey},
		entitystore.Ref{Type: EntityExtCell, Key: extCellURL})
	if errors.Is(err, entitystore.ErrLinkExists) {
		return fmt.Errorf("%w: %s %q - %s %q", ErrRelationExists, entityType, entityKey, EntityExtCell, extCellURL)
	}
	return err
}

// ensureEntity creates the entity when it does not already exist.
func (s *StateMachine) ensureEntity(ctx context.Context, typ, key string, fields map[string]string) error {
	_, err := s.store.Get(ctx, typ, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, entitystore.ErrNotFound) {
		return err
	}
	_, err = s.store.Create(ctx, &entitystore.Document{
		Type:   typ,
		Key:    key,
		Fields: fields,
	})
	return err
}

// deleteRelation removes only the link between the existing
// Relation/Role and ExtCell; the entities themselves stay. A missing
// entity or link is an error naming what is missing.
func (s *StateMachine) deleteRelation(ctx context.Context, entityType, entityKey, extCellURL string) error {
	if _, err := s.store.Get(ctx, entityType, entityKey); err != nil {
		return err
	}
	if _, err := s.store.Get(ctx, EntityExtCell, extCellURL); err != nil {
		return err
	}
	ok, err := s.store.DeleteLink(ctx,
		entitystore.Ref{Type: entityType, Key: entityKey},
		entitystore.Ref{Type: EntityExtCell, Key: extCellURL})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %q - %s %q", ErrLinkNotFound, entityType, entityKey, EntityExtCell, extCellURL)
	}
	return nil
}
