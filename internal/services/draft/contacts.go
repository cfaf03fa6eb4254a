// File: internal/services/draft/contacts.go
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/contact"
)

// ContactResolver turns caller recipient buckets into normalized contacts,
// checking that referenced contacts belong to the requester.
type ContactResolver struct {
	contacts ContactStore
}

func NewContactResolver(contacts ContactStore) *ContactResolver {
	return &ContactResolver{contacts: contacts}
}

// Resolve flattens buckets in input order. Duplicates are kept.
func (r *ContactResolver) Resolve(ctx context.Context, buckets []RecipientBucket, requester uint) (Recipients, error) {
	var out Recipients
	for _, bucket := range buckets {
		to, err := r.resolveAll(ctx, bucket.To, requester)
		if err != nil {
			return Recipients{}, err
		}
		cc, err := r.resolveAll(ctx, bucket.Cc, requester)
		if err != nil {
			return Recipients{}, err
		}
		bcc, err := r.resolveAll(ctx, bucket.Bcc, requester)
		if err != nil {
			return Recipients{}, err
		}
		out.To = append(out.To, to...)
		out.Cc = append(out.Cc, cc...)
		out.Bcc = append(out.Bcc, bcc...)
	}
	return out, nil
}

func (r *ContactResolver) resolveAll(ctx context.Context, refs []ContactRef, requester uint) ([]NormalizedContact, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]NormalizedContact, 0, len(refs))
	for _, ref := range refs {
		resolved, err := r.resolveOne(ctx, ref, requester)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func (r *ContactResolver) resolveOne(ctx context.Context, ref ContactRef, requester uint) (NormalizedContact, error) {
	if ref.ID != nil {
		stored, err := r.contacts.FindByIDForUser(ctx, *ref.ID, requester)
		if errors.Is(err, contact.ErrContactNotFound) {
			return NormalizedContact{}, NewNotFoundError("resolve_contacts", fmt.Sprintf("contact %d not found", *ref.ID), err)
		}
		if err != nil {
			return NormalizedContact{}, NewInternalError("resolve_contacts", "failed to load contact", err)
		}
		return fromStored(stored), nil
	}

	email := strings.TrimSpace(ref.Email)
	if email == "" {
		return NormalizedContact{}, NewInvalidInputError("resolve_contacts", "you must provide either an id or an email for every contact")
	}
	return NormalizedContact{
		Name:        ref.Name,
		Email:       email,
		Company:     ref.Company,
		WorkTitle:   ref.WorkTitle,
		College:     ref.College,
		Major:       ref.Major,
		PhoneCode:   ref.PhoneCode,
		PhoneNumber: ref.PhoneNumber,
	}, nil
}

// fromStored copies a stored contact; empty strings become nil.
func fromStored(c *domain.Contact) NormalizedContact {
	name := c.Name
	return NormalizedContact{
		Name:        nonEmpty(&name),
		Email:       c.Email,
		Company:     nonEmpty(c.Company),
		WorkTitle:   nonEmpty(c.WorkTitle),
		College:     nonEmpty(c.College),
		Major:       nonEmpty(c.Major),
		PhoneCode:   nonEmpty(c.PhoneCode),
		PhoneNumber: nonEmpty(c.PhoneNumber),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
