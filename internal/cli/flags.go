package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rateValue is a pflag.Value for hourly rates. "none" clears the rate.
type rateValue struct {
	rate *decimal.Decimal
	set  bool
}

var _ pflag.Value = (*rateValue)(nil)

func (v *rateValue) String() string {
	if v.rate == nil {
		if v.set {
			return "none"
		}
		return ""
	}
	return v.rate.String()
}

func (v *rateValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		v.rate, v.set = nil, true
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid rate %q", s)
	}
	if d.IsNegative() {
		return fmt.Errorf("rate %s is negative", d)
	}
	v.rate, v.set = &d, true
	return nil
}

func (v *rateValue) Type() string { return "rate" }

// groupKeyValue restricts a flag to the grouping vocabulary.
type groupKeyValue struct {
	key *domain.GroupKey
}

var _ pflag.Value = groupKeyValue{}

func (v groupKeyValue) String() string {
	if v.key == nil {
		return ""
	}
	return string(*v.key)
}

func (v groupKeyValue) Set(s string) error {
	k := domain.GroupKey(strings.ToLower(strings.TrimSpace(s)))
	if k != "" && !k.Known() {
		return fmt.Errorf("unknown group %q", s)
	}
	*v.key = k
	return nil
}

func (v groupKeyValue) Type() string { return "group" }

// reportFlags are the filter flags shared by report-building commands.
type reportFlags struct {
	group     domain.GroupKey
	subGroup  domain.GroupKey
	from      string
	to        string
	members   []string
	projects  []string
	clients   []string
	tasks     []string
	tags      []string
	billable  bool
	utcOffset int
}

func addReportFlags(cmd *cobra.Command, f *reportFlags, grouping bool) {
	if grouping {
		f.group = domain.GroupProjects
		cmd.Flags().Var(groupKeyValue{&f.group}, "group", "Group by: date, week, month, members, projects, tasks, clients, billable, description")
		cmd.Flags().Var(groupKeyValue{&f.subGroup}, "sub-group", "Second grouping level")
	}
	cmd.Flags().StringVar(&f.from, "from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.members, "member", nil, "Only these members (repeatable)")
	cmd.Flags().StringSliceVar(&f.projects, "project", nil, "Only these projects (repeatable)")
	cmd.Flags().StringSliceVar(&f.clients, "client", nil, "Only these clients (repeatable)")
	cmd.Flags().StringSliceVar(&f.tasks, "task", nil, "Only these tasks (repeatable)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Only entries with one of these tags (repeatable)")
	cmd.Flags().BoolVar(&f.billable, "billable", false, "Only billable entries (--billable=false for non-billable)")
	cmd.Flags().IntVar(&f.utcOffset, "utc-offset", 0, "Reference UTC offset in minutes for day boundaries")
}

// filter turns the flags into a ReportFilter, resolving names to IDs.
func (f *reportFlags) filter(ctx context.Context, cmd *cobra.Command, a *App, orgID string) (app.ReportFilter, error) {
	out := app.ReportFilter{
		Group:            f.group,
		SubGroup:         f.subGroup,
		StartDate:        f.from,
		EndDate:          f.to,
		UTCOffsetMinutes: a.UTCOffsetMinutes,
	}
	if cmd.Flags().Changed("utc-offset") {
		out.UTCOffsetMinutes = f.utcOffset
	}
	if cmd.Flags().Changed("billable") {
		b := f.billable
		out.Billable = &b
	}

	var err error
	if out.MemberIDs, err = resolveMemberIDs(ctx, a, orgID, f.members); err != nil {
		return out, err
	}
	cat := &catalogResolver{app: a, orgID: orgID}
	if out.ProjectIDs, err = cat.ids(ctx, "project", f.projects); err != nil {
		return out, err
	}
	if out.ClientIDs, err = cat.ids(ctx, "client", f.clients); err != nil {
		return out, err
	}
	if out.TaskIDs, err = cat.ids(ctx, "task", f.tasks); err != nil {
		return out, err
	}
	if out.TagIDs, err = cat.ids(ctx, "tag", f.tags); err != nil {
		return out, err
	}
	if len(out.MemberIDs) == 0 {
		out.MemberIDs = nil
	}
	return out, nil
}
