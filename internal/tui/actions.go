package tui

import (
	"fmt"
	"strconv"

	"github.com/kingrea/tally/internal/invoice"
	"github.com/kingrea/tally/internal/lifecycle"
)

// maxHotkeys is the number of actions reachable through the digit keys.
const maxHotkeys = 9

// actionHandler performs an action against the book and returns the
// message shown in the footer.
type actionHandler func(a *App, target invoice.Invoice) (string, error)

var actionHandlers = map[string]actionHandler{
	lifecycle.ActionSave:      saveInvoice,
	lifecycle.ActionDraft:     statusHandler(invoice.StatusDraft, "Marked %s as draft"),
	lifecycle.ActionValidated: statusHandler(invoice.StatusValidated, "Validated %s"),
	lifecycle.ActionDuplicate: duplicateInvoice,
	lifecycle.ActionDownload:  downloadInvoice,
	lifecycle.ActionDelete:    deleteInvoice,
	lifecycle.ActionReset:     statusHandler(invoice.StatusDraft, "Reset %s to draft"),
	lifecycle.ActionArchive:   archiveInvoice,
}

func actionHotkey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > maxHotkeys {
		return 0, false
	}
	return n - 1, true
}

// eligibleActions lists the actions offered for the selected row, in
// registry order.
func (a *App) eligibleActions() []lifecycle.ActionDescriptor {
	target, ok := a.selected()
	if !ok {
		return nil
	}
	return a.registry.Eligible(a.statusOf(target))
}

func (a *App) triggerAction(idx int) {
	target, ok := a.selected()
	if !ok {
		return
	}
	actions := a.registry.Eligible(a.statusOf(target))
	if idx < 0 || idx >= len(actions) {
		return
	}
	a.runAction(actions[idx], target)
}

func (a *App) runAction(action lifecycle.ActionDescriptor, target invoice.Invoice) {
	label := a.label(action.Label)
	status := a.statusOf(target)
	if !lifecycle.IsEligible(action, status) {
		a.statusMsg = fmt.Sprintf("%s is not offered for %s invoices", label, a.label(status.MessageKey()))
		a.logWarn("%s refused for %s (%s)", action.Key, target.DisplayNumber(), status)
		return
	}
	handler, ok := actionHandlers[action.Key]
	if !ok {
		a.statusMsg = fmt.Sprintf("%s requested for %s", label, target.DisplayNumber())
		a.logInfo("%s requested for %s (no handler)", action.Key, target.DisplayNumber())
		return
	}
	result, err := handler(a, target)
	if err != nil {
		a.statusMsg = fmt.Sprintf("%s failed: %v", label, err)
		a.logError("%s %s: %v", action.Key, target.DisplayNumber(), err)
		a.logger.Printf("action %s on %q: %v", action.Key, target.ID, err)
		return
	}
	a.statusMsg = result
	a.logInfo("%s", result)
	a.refreshRows()
}

// persist writes the pending row to the book with the given status and
// clears the pending slot on success.
func (a *App) persist(target invoice.Invoice, status invoice.Status) (invoice.Invoice, error) {
	target.Status = status
	saved, err := a.book.Put(target)
	if err != nil {
		return invoice.Invoice{}, err
	}
	a.pending = nil
	return saved, nil
}

func saveInvoice(a *App, target invoice.Invoice) (string, error) {
	if a.isPending(target) {
		saved, err := a.persist(target, invoice.StatusDraft)
		if err != nil {
			return "", err
		}
		return "Saved " + saved.Number, nil
	}
	current, err := a.book.Get(target.ID)
	if err != nil {
		return "", err
	}
	// A stored record without a status is saved as a draft.
	if current.Status.IsUnset() {
		current.Status = invoice.StatusDraft
	}
	if _, err := a.book.Put(current); err != nil {
		return "", err
	}
	return "Saved " + current.Number, nil
}

func statusHandler(status invoice.Status, format string) actionHandler {
	return func(a *App, target invoice.Invoice) (string, error) {
		if a.isPending(target) {
			saved, err := a.persist(target, status)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(format, saved.Number), nil
		}
		if err := a.book.SetStatus(target.ID, status); err != nil {
			return "", err
		}
		return fmt.Sprintf(format, target.Number), nil
	}
}

func duplicateInvoice(a *App, target invoice.Invoice) (string, error) {
	clone, err := a.book.Duplicate(target.ID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Duplicated %s as %s", target.Number, clone.Number), nil
}

func downloadInvoice(a *App, target invoice.Invoice) (string, error) {
	current, err := a.book.Get(target.ID)
	if err != nil {
		return "", err
	}
	path, err := invoice.ExportMarkdown(a.config.ExportsDir(), current)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Exported %s to %s", current.Number, path), nil
}

func deleteInvoice(a *App, target invoice.Invoice) (string, error) {
	if err := a.book.Remove(target.ID); err != nil {
		return "", err
	}
	return "Deleted " + target.Number, nil
}

// archiveInvoice files the record away, or brings it back when it is
// already archived. A pending row is stored archived with its unset status.
func archiveInvoice(a *App, target invoice.Invoice) (string, error) {
	if a.isPending(target) {
		target.Archived = true
		saved, err := a.persist(target, invoice.StatusUnset)
		if err != nil {
			return "", err
		}
		return "Archived " + saved.Number, nil
	}
	current, err := a.book.Get(target.ID)
	if err != nil {
		return "", err
	}
	if err := a.book.SetArchived(current.ID, !current.Archived); err != nil {
		return "", err
	}
	if current.Archived {
		return "Restored " + current.Number, nil
	}
	return "Archived " + current.Number, nil
}
