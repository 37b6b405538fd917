package views

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/services"
	"github.com/dmitrijs2005/civicwatch/internal/common"
	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

// ListView is the home page: all complaints, optionally filtered.
type ListView struct {
	complaints services.ComplaintService
	out        *Output
	logger     logging.Logger

	mu          sync.Mutex
	filter      models.ComplaintFilter
	departments []string
	items       []models.Complaint
}

func NewListView(complaints services.ComplaintService, out *Output, logger logging.Logger) *ListView {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ListView{complaints: complaints, out: out, logger: logger.With("view", "list")}
}

// SetFilter chooses the department and status; "all" or blank clears one.
func (v *ListView) SetFilter(department, status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = models.ComplaintFilter{
		Department: common.NormalizeFilter(department),
		Status:     common.NormalizeFilter(status),
	}
}

func (v *ListView) Filter() models.ComplaintFilter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Departments returns the department choices seen on the last load.
func (v *ListView) Departments() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.departments)
}

// Items returns the complaints of the last successful load.
func (v *ListView) Items() []models.Complaint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.items)
}

// Load fetches the list with the current filter and renders it. On failure
// the error line is rendered and the previous state is kept.
func (v *ListView) Load(ctx context.Context) error {
	filter := v.Filter()

	list, err := v.complaints.List(ctx, filter)
	if err != nil {
		v.logger.Warn(ctx, "failed to fetch complaints", "error", err)
		v.out.Error(err)
		return err
	}

	depts := departmentsOf(list)

	v.mu.Lock()
	v.items = list
	v.departments = depts
	// the choice survives only while it is still offered
	if v.filter == filter && filter.Department != "" && !slices.Contains(depts, filter.Department) {
		v.filter.Department = ""
	}
	v.mu.Unlock()

	v.out.Block(func(w io.Writer) {
		fmt.Fprintf(w, "-- complaints (department: %s, status: %s) --\n", orAll(filter.Department), orAll(filter.Status))
		if len(list) == 0 {
			fmt.Fprintln(w, "no complaints")
		}
		for i := range list {
			renderCard(w, &list[i])
		}
		if len(depts) > 0 {
			fmt.Fprintf(w, "departments: %s\n", joinChoices(depts))
		}
	})
	return nil
}

func departmentsOf(list []models.Complaint) []string {
	seen := map[string]struct{}{}
	for i := range list {
		if d := list[i].DepartmentLabel(); d != "" {
			seen[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func orAll(s string) string {
	if s == "" {
		return common.FilterAll
	}
	return s
}

func joinChoices(depts []string) string {
	out := common.FilterAll
	for _, d := range depts {
		out += ", " + d
	}
	return out
}
