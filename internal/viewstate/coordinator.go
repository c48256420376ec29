// Package viewstate holds what the viewer is currently showing: one list
// page, one selected record, and a load status for each.
package viewstate

import (
	"context"
	"strings"

	"github.com/smileynet/pokedex/internal/pokeapi"
)

// Status is the load state of the page or the entity.
type Status int

const (
	StatusIdle    Status = iota // Nothing in flight; last load (if any) succeeded.
	StatusLoading               // A load has started and not yet been applied.
	StatusError                 // The last load failed; see the error message.
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher is the data-access surface the coordinator needs.
// *pokeapi.Service satisfies it.
type Fetcher interface {
	FetchList(ctx context.Context, pageURL string) (*pokeapi.ListPage, error)
	FetchEntity(ctx context.Context, idOrName string) (*pokeapi.Entity, error)
}

// Slot is one row of the list pane. Empty slots pad a short page.
type Slot struct {
	pokeapi.Summary
	Empty bool
}

// Coordinator is not safe for concurrent use; confine it to one goroutine
// (the Bubble Tea update loop, or a CLI command). Loads may run elsewhere
// via the Begin/Apply pairs, and results are applied in arrival order, so
// the last load to finish wins.
type Coordinator struct {
	fetcher  Fetcher
	pageSize int

	page       *pokeapi.ListPage
	pageStatus Status
	pageErr    string

	entity       *pokeapi.Entity
	entityStatus Status
	entityErr    string
}

// New creates a Coordinator that pads list pages to pageSize slots.
func New(fetcher Fetcher, pageSize int) *Coordinator {
	if pageSize <= 0 {
		pageSize = pokeapi.DefaultPageSize
	}
	return &Coordinator{fetcher: fetcher, pageSize: pageSize}
}

// BeginPage marks a page load as started and clears the selected entity.
func (c *Coordinator) BeginPage() {
	c.pageStatus = StatusLoading
	c.pageErr = ""
	c.entity = nil
}

// ApplyPage records the outcome of a page load. On failure the previous
// page stays current.
func (c *Coordinator) ApplyPage(page *pokeapi.ListPage, err error) {
	if err != nil {
		c.pageStatus = StatusError
		c.pageErr = err.Error()
		return
	}
	c.page = page
	c.pageStatus = StatusIdle
	c.pageErr = ""
}

// LoadPage fetches and applies the page at url, or the first page when
// url is empty. The error is also recorded on the coordinator.
func (c *Coordinator) LoadPage(ctx context.Context, url string) error {
	c.BeginPage()
	page, err := c.fetcher.FetchList(ctx, url)
	c.ApplyPage(page, err)
	return err
}

// BeginEntity marks an entity load as started.
func (c *Coordinator) BeginEntity() {
	c.entityStatus = StatusLoading
	c.entityErr = ""
}

// ApplyEntity records the outcome of an entity load. On failure the
// previously selected entity stays current.
func (c *Coordinator) ApplyEntity(entity *pokeapi.Entity, err error) {
	if err != nil {
		c.entityStatus = StatusError
		c.entityErr = err.Error()
		return
	}
	c.entity = entity
	c.entityStatus = StatusIdle
	c.entityErr = ""
}

// LoadEntity fetches and applies the record for idOrName. A blank
// identifier is ignored.
func (c *Coordinator) LoadEntity(ctx context.Context, idOrName string) error {
	if strings.TrimSpace(idOrName) == "" {
		return nil
	}
	c.BeginEntity()
	entity, err := c.fetcher.FetchEntity(ctx, idOrName)
	c.ApplyEntity(entity, err)
	return err
}

// Page returns the current list page, or nil before the first success.
func (c *Coordinator) Page() *pokeapi.ListPage { return c.page }

// Entity returns the selected record, or nil.
func (c *Coordinator) Entity() *pokeapi.Entity { return c.entity }

// PageStatus returns the page load state.
func (c *Coordinator) PageStatus() Status { return c.pageStatus }

// EntityStatus returns the entity load state.
func (c *Coordinator) EntityStatus() Status { return c.entityStatus }

// PageError returns the message of the last failed page load, or "".
func (c *Coordinator) PageError() string { return c.pageErr }

// EntityError returns the message of the last failed entity load, or "".
func (c *Coordinator) EntityError() string { return c.entityErr }

// PageSize returns the number of list slots.
func (c *Coordinator) PageSize() int { return c.pageSize }

// PreviousURL returns the previous-page link of the current page, or "".
func (c *Coordinator) PreviousURL() string {
	if c.page == nil {
		return ""
	}
	return c.page.Previous
}

// NextURL returns the next-page link of the current page, or "".
func (c *Coordinator) NextURL() string {
	if c.page == nil {
		return ""
	}
	return c.page.Next
}

// HasPrevious reports whether there is a page before the current one.
func (c *Coordinator) HasPrevious() bool { return c.PreviousURL() != "" }

// HasNext reports whether there is a page after the current one.
func (c *Coordinator) HasNext() bool { return c.NextURL() != "" }

// Slots returns exactly PageSize list rows: the current page's items,
// then empty placeholders.
func (c *Coordinator) Slots() []Slot {
	slots := make([]Slot, c.pageSize)
	for i := range slots {
		if c.page != nil && i < len(c.page.Items) {
			slots[i] = Slot{Summary: c.page.Items[i]}
			continue
		}
		slots[i] = Slot{Empty: true}
	}
	return slots
}
