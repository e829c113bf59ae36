package tix

import (
	"github.com/Zaki4gg/asiq-tix/internal/models"
)

// ResolveRole determines a wallet's authorization role, reconciling the
// stored role against the on-chain isPromoter predicate on every lookup.
//
// Admin allow-list entries win unconditionally and are never auto-demoted.
// For everyone else the target role follows the chain: promoter if the
// contract says so, customer otherwise. An RPC failure counts as "not a
// promoter" - the resolver fails closed, never toward elevated privilege.
// If persisting the reconciled role fails the computed role is still
// returned; the chain is the source of truth for the response.
func (t *Tix) ResolveRole(address string) (string, error) {
	admin, err := t.repo.IsAdmin(address)
	if err != nil {
		return "", err
	}
	if admin {
		return models.RoleAdmin, nil
	}

	user, err := t.repo.EnsureUser(address)
	if err != nil {
		return "", err
	}

	// Without a chain client there is nothing to reconcile against and
	// the stored role stands.
	if t.chain == nil {
		return user.Role, nil
	}

	targetRole := models.RoleCustomer
	promoter, err := t.chain.IsPromoter(address)
	if err != nil {
		t.logger.Error("isPromoter RPC failed, treating wallet as customer", " address ", address, " error ", err)
		promoter = false
	}
	if promoter {
		targetRole = models.RolePromoter
	}

	if user.Role != targetRole {
		if err := t.repo.UpdateUserRole(address, targetRole); err != nil {
			t.logger.Error("Failed to sync role with on-chain state", " address ", address, " error ", err)
		}
	}

	return targetRole, nil
}

// GrantPromoter persists an admin-granted promoter role for the wallet,
// creating the user row if needed.
func (t *Tix) GrantPromoter(address string) (*models.User, error) {
	if _, err := t.repo.EnsureUser(address); err != nil {
		return nil, err
	}
	if err := t.repo.UpdateUserRole(address, models.RolePromoter); err != nil {
		return nil, err
	}
	return &models.User{WalletAddress: address, Role: models.RolePromoter}, nil
}

// IsAdmin reports whether the wallet is on the admin allow-list.
func (t *Tix) IsAdmin(address string) (bool, error) {
	return t.repo.IsAdmin(address)
}

// AddAdmin puts the wallet on the admin allow-list.
func (t *Tix) AddAdmin(address string, note *string) error {
	return t.repo.UpsertAdmin(address, note)
}

// RemoveAdmin drops the wallet from the admin allow-list.
func (t *Tix) RemoveAdmin(address string) error {
	return t.repo.RemoveAdmin(address)
}
