package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

func TestTicketLifecycle(t *testing.T) {
	repo := newTicketRepoStub()
	svc := NewTicketService(repo, zerolog.Nop())

	owner := senderActor()
	ticket, err := svc.Create(context.Background(), ports.CreateTicketInput{
		Actor:   owner,
		Subject: "package damaged",
		Message: "the box arrived crushed",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if ticket.Status != domain.TicketOpen {
		t.Errorf("new ticket status = %s, want open", ticket.Status)
	}

	// owner and admin can read it, strangers cannot
	if _, err := svc.Get(context.Background(), ticket.ID, owner); err != nil {
		t.Errorf("owner should read own ticket: %v", err)
	}
	if _, err := svc.Get(context.Background(), ticket.ID, adminActor()); err != nil {
		t.Errorf("admin should read any ticket: %v", err)
	}
	if _, err := svc.Get(context.Background(), ticket.ID, senderActor()); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("stranger should get not-found, got %v", err)
	}

	// admin resolves with a reply
	resolved := string(domain.TicketResolved)
	reply := "replacement dispatched"
	updated, err := svc.Update(context.Background(), ticket.ID, adminActor(), ports.UpdateTicketInput{
		Status: &resolved,
		Reply:  &reply,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != domain.TicketResolved || updated.Reply != reply {
		t.Errorf("updated ticket = %s/%q", updated.Status, updated.Reply)
	}
}

func TestTicketUpdateRules(t *testing.T) {
	repo := newTicketRepoStub()
	svc := NewTicketService(repo, zerolog.Nop())

	owner := senderActor()
	ticket, err := svc.Create(context.Background(), ports.CreateTicketInput{
		Actor:   owner,
		Subject: "late delivery",
		Message: "two days overdue",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	reply := "sorry"
	if _, err := svc.Update(context.Background(), ticket.ID, owner, ports.UpdateTicketInput{Reply: &reply}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-admin update should be forbidden, got %v", err)
	}

	repo.byID[ticket.ID].Status = domain.TicketClosed
	if _, err := svc.Update(context.Background(), ticket.ID, adminActor(), ports.UpdateTicketInput{Reply: &reply}); !errors.Is(err, domain.ErrTicketClosed) {
		t.Errorf("reply on closed ticket should fail, got %v", err)
	}
}

func TestTicketListScoping(t *testing.T) {
	repo := newTicketRepoStub()
	svc := NewTicketService(repo, zerolog.Nop())

	owner := senderActor()
	other := senderActor()
	for _, actor := range []ports.Actor{owner, other} {
		if _, err := svc.Create(context.Background(), ports.CreateTicketInput{
			Actor:   actor,
			Subject: "s",
			Message: "m",
		}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	_, total, err := svc.List(context.Background(), owner, "", 1, 20)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 {
		t.Errorf("owner sees %d tickets, want 1", total)
	}

	_, total, err = svc.List(context.Background(), adminActor(), "", 1, 20)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 {
		t.Errorf("admin sees %d tickets, want 2", total)
	}

	if _, _, err := svc.List(context.Background(), owner, "escalated", 1, 20); err == nil {
		t.Error("unknown status filter should be rejected")
	}
}
