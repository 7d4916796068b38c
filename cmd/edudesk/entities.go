package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/query"
	"github.com/MacJediWizard/edudesk/internal/render"
	"github.com/MacJediWizard/edudesk/internal/services"
	"github.com/spf13/cobra"
)

// reader is the read side shared by every entity service.
type reader[T, F any] interface {
	Path() string
	List(ctx context.Context, filters F, extra ...query.Param) *envelope.Response[envelope.Page[T]]
	Get(ctx context.Context, id string) *envelope.Response[T]
}

// crud is a full entity service.
type crud[T, C, U, F any] interface {
	reader[T, F]
	Create(ctx context.Context, body C) *envelope.Response[T]
	Update(ctx context.Context, id string, body U) *envelope.Response[T]
	SoftDelete(ctx context.Context, id string) *envelope.Response[envelope.Message]
	Restore(ctx context.Context, id string) *envelope.Response[T]
	ForceDelete(ctx context.Context, id string) *envelope.Response[envelope.Message]
}

// action is an entity lifecycle command taking the record id.
type action[T any] struct {
	use   string
	short string
	setup func(cmd *cobra.Command)
	run   func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[T]
}

// entity describes the command group of one resource. Exactly one of read
// and write is set; read alone makes the group read-only.
type entity[T render.Tabular, C, U, F any] struct {
	use     string
	aliases []string
	short   string
	read    func(s *services.Services) reader[T, F]
	write   func(s *services.Services) crud[T, C, U, F]
	actions []action[T]
	extra   []func(a *app) *cobra.Command
}

func (e entity[T, C, U, F]) reader(s *services.Services) reader[T, F] {
	if e.write != nil {
		return e.write(s)
	}
	return e.read(s)
}

func entityCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newEntityCmd(a, entity[models.Organization, models.CreateOrganizationRequest, models.UpdateOrganizationRequest, models.OrganizationFilters]{
			use: "organizations", aliases: []string{"orgs"}, short: "Manage organizations",
			write: func(s *services.Services) crud[models.Organization, models.CreateOrganizationRequest, models.UpdateOrganizationRequest, models.OrganizationFilters] {
				return s.Organizations
			},
		}),
		newEntityCmd(a, entity[models.Center, models.CreateCenterRequest, models.UpdateCenterRequest, models.CenterFilters]{
			use: "centers", short: "Manage centers",
			write: func(s *services.Services) crud[models.Center, models.CreateCenterRequest, models.UpdateCenterRequest, models.CenterFilters] {
				return s.Centers
			},
		}),
		newEntityCmd(a, entity[models.Employee, models.CreateEmployeeRequest, models.UpdateEmployeeRequest, models.EmployeeFilters]{
			use: "employees", short: "Manage employees",
			write: func(s *services.Services) crud[models.Employee, models.CreateEmployeeRequest, models.UpdateEmployeeRequest, models.EmployeeFilters] {
				return s.Employees
			},
		}),
		newEntityCmd(a, entity[models.Student, models.CreateStudentRequest, models.UpdateStudentRequest, models.StudentFilters]{
			use: "students", short: "Manage students",
			write: func(s *services.Services) crud[models.Student, models.CreateStudentRequest, models.UpdateStudentRequest, models.StudentFilters] {
				return s.Students
			},
		}),
		newEntityCmd(a, entity[models.Course, models.CreateCourseRequest, models.UpdateCourseRequest, models.CourseFilters]{
			use: "courses", short: "Manage courses",
			write: func(s *services.Services) crud[models.Course, models.CreateCourseRequest, models.UpdateCourseRequest, models.CourseFilters] {
				return s.Courses
			},
			actions: []action[models.Course]{
				simpleAction("publish", "Publish a course", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Course] {
					return s.Courses.Publish
				}),
				simpleAction("archive", "Archive a course", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Course] {
					return s.Courses.Archive
				}),
			},
		}),
		newEntityCmd(a, entity[models.Cohort, models.CreateCohortRequest, models.UpdateCohortRequest, models.CohortFilters]{
			use: "cohorts", short: "Manage cohorts",
			write: func(s *services.Services) crud[models.Cohort, models.CreateCohortRequest, models.UpdateCohortRequest, models.CohortFilters] {
				return s.Cohorts
			},
			actions: []action[models.Cohort]{
				simpleAction("start", "Start a cohort", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Cohort] {
					return s.Cohorts.Start
				}),
				simpleAction("complete", "Complete a cohort", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Cohort] {
					return s.Cohorts.Complete
				}),
				simpleAction("cancel", "Cancel a cohort", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Cohort] {
					return s.Cohorts.Cancel
				}),
				simpleAction("open-enrollment", "Open a cohort for enrollment", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Cohort] {
					return s.Cohorts.OpenEnrollment
				}),
				simpleAction("close-enrollment", "Close enrollment for a cohort", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Cohort] {
					return s.Cohorts.CloseEnrollment
				}),
			},
		}),
		newEntityCmd(a, entity[models.Class, models.CreateClassRequest, models.UpdateClassRequest, models.ClassFilters]{
			use: "classes", short: "Manage scheduled classes",
			write: func(s *services.Services) crud[models.Class, models.CreateClassRequest, models.UpdateClassRequest, models.ClassFilters] {
				return s.Classes
			},
			actions: []action[models.Class]{
				simpleAction("cancel", "Cancel a class", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Class] {
					return s.Classes.Cancel
				}),
				simpleAction("complete", "Mark a class as held", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Class] {
					return s.Classes.Complete
				}),
			},
		}),
		newEntityCmd(a, entity[models.Enrollment, models.CreateEnrollmentRequest, models.UpdateEnrollmentRequest, models.EnrollmentFilters]{
			use: "enrollments", short: "Manage enrollments",
			write: func(s *services.Services) crud[models.Enrollment, models.CreateEnrollmentRequest, models.UpdateEnrollmentRequest, models.EnrollmentFilters] {
				return s.Enrollments
			},
			actions: []action[models.Enrollment]{withdrawAction()},
		}),
		newEntityCmd(a, entity[models.Enquiry, models.CreateEnquiryRequest, models.UpdateEnquiryRequest, models.EnquiryFilters]{
			use: "enquiries", short: "Manage enquiries",
			write: func(s *services.Services) crud[models.Enquiry, models.CreateEnquiryRequest, models.UpdateEnquiryRequest, models.EnquiryFilters] {
				return s.Enquiries
			},
			actions: []action[models.Enquiry]{convertAction(), assignAction()},
		}),
		newEntityCmd(a, entity[models.Payment, models.CreatePaymentRequest, models.UpdatePaymentRequest, models.PaymentFilters]{
			use: "payments", short: "Manage payments",
			write: func(s *services.Services) crud[models.Payment, models.CreatePaymentRequest, models.UpdatePaymentRequest, models.PaymentFilters] {
				return s.Payments
			},
			actions: []action[models.Payment]{
				simpleAction("process", "Mark a payment as completed", func(s *services.Services) func(context.Context, string) *envelope.Response[models.Payment] {
					return s.Payments.Process
				}),
				refundAction(),
			},
		}),
		newEntityCmd(a, entity[models.Feedback, models.CreateFeedbackRequest, models.UpdateFeedbackRequest, models.FeedbackFilters]{
			use: "feedback", short: "Manage feedback",
			write: func(s *services.Services) crud[models.Feedback, models.CreateFeedbackRequest, models.UpdateFeedbackRequest, models.FeedbackFilters] {
				return s.Feedback
			},
		}),
		newEntityCmd(a, entity[models.Role, models.CreateRoleRequest, models.UpdateRoleRequest, models.RoleFilters]{
			use: "roles", short: "Manage roles and permissions",
			write: func(s *services.Services) crud[models.Role, models.CreateRoleRequest, models.UpdateRoleRequest, models.RoleFilters] {
				return s.Roles
			},
			actions: []action[models.Role]{assignPermissionsAction()},
			extra:   []func(a *app) *cobra.Command{newRolePermissionsCmd},
		}),
		newEntityCmd(a, entity[models.AuditLog, struct{}, struct{}, models.AuditLogFilters]{
			use: "audit-logs", aliases: []string{"audit"}, short: "Browse the audit trail",
			read: func(s *services.Services) reader[models.AuditLog, models.AuditLogFilters] {
				return s.AuditLogs
			},
		}),
	}
}

func newEntityCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     e.use,
		Aliases: e.aliases,
		Short:   e.short,
	}

	cmd.AddCommand(newListCmd(a, e))
	cmd.AddCommand(newGetCmd(a, e))
	if e.write != nil {
		cmd.AddCommand(newCreateCmd(a, e))
		cmd.AddCommand(newUpdateCmd(a, e))
		cmd.AddCommand(newDeleteCmd(a, e))
		cmd.AddCommand(newRestoreCmd(a, e))
		cmd.AddCommand(newPurgeCmd(a, e))
	}
	for _, act := range e.actions {
		cmd.AddCommand(newActionCmd(a, act))
	}
	for _, fn := range e.extra {
		cmd.AddCommand(fn(a))
	}

	return cmd
}

// listOptions holds the flags shared by every list command.
type listOptions struct {
	page           int
	limit          int
	search         string
	status         string
	sortBy         string
	sortOrder      string
	includeDeleted bool
	filters        []string
}

// params encodes the flags that were set, in a fixed order, followed by the
// --filter pairs in the order given.
func (o *listOptions) params(cmd *cobra.Command) (query.Params, error) {
	flags := cmd.Flags()
	var p query.Params
	if flags.Changed("page") {
		p = p.Add("page", o.page)
	}
	if flags.Changed("limit") {
		p = p.Add("limit", o.limit)
	}
	if o.search != "" {
		p = p.Add("search", o.search)
	}
	if o.sortBy != "" {
		p = p.Add("sortBy", o.sortBy)
	}
	if o.sortOrder != "" {
		order := models.SortOrder(strings.ToLower(o.sortOrder))
		if order != models.SortAsc && order != models.SortDesc {
			return nil, fmt.Errorf("invalid --sort-order %q (want asc or desc)", o.sortOrder)
		}
		p = p.Add("sortOrder", order)
	}
	if o.includeDeleted {
		p = p.Add("includeDeleted", true)
	}
	if o.status != "" {
		p = p.Add("status", strings.ToUpper(o.status))
	}
	for _, f := range o.filters {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --filter %q (want key=value)", f)
		}
		p = p.Add(key, value)
	}
	return p, nil
}

func newListCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + e.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := opts.params(cmd)
			if err != nil {
				return err
			}
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			var zero F
			resp := e.reader(a.svc).List(cmd.Context(), zero, params...)
			return result(a, resp, func(p envelope.Page[T]) error {
				return render.Page(a.out, p)
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.page, "page", 0, "page number")
	f.IntVar(&opts.limit, "limit", 0, "records per page")
	f.StringVar(&opts.search, "search", "", "free text search")
	f.StringVar(&opts.status, "status", "", "filter by status")
	f.StringVar(&opts.sortBy, "sort-by", "", "sort field")
	f.StringVar(&opts.sortOrder, "sort-order", "", "sort direction (asc or desc)")
	f.BoolVar(&opts.includeDeleted, "include-deleted", false, "include soft deleted records")
	f.StringArrayVar(&opts.filters, "filter", nil, "extra filter as key=value (repeatable)")

	return cmd
}

func newGetCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := e.reader(a.svc).Get(cmd.Context(), args[0])
			return result(a, resp, func(v T) error {
				return render.Item(a.out, v)
			})
		},
	}
}

func newCreateCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body C
			if err := decodeFile(cmd, file, &body); err != nil {
				return err
			}
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := e.write(a.svc).Create(cmd.Context(), body)
			return result(a, resp, func(v T) error {
				a.out.Line("%s", resp.Message)
				return render.Item(a.out, v)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON body, - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newUpdateCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	var (
		file   string
		diff   bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Patch a record from a JSON file",
		Long: `Sends the fields in the JSON file as a partial update.

With --diff the current record is fetched first and the change is shown as a
unified diff. --dry-run shows the diff without sending the update.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			var patch U
			if err := decodeFile(cmd, file, &patch); err != nil {
				return err
			}
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			svc := e.write(a.svc)

			if diff || dryRun {
				current := svc.Get(cmd.Context(), id)
				if err := current.Err(); err != nil {
					return fmt.Errorf("%w: %w", errReported, err)
				}
				if current.Data == nil {
					return fmt.Errorf("%s %s returned no record to diff against", svc.Path(), id)
				}
				out, err := previewPatch(strings.TrimPrefix(svc.Path(), "/")+"/"+id, *current.Data, patch)
				if err != nil {
					return err
				}
				if out == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				} else {
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
				if dryRun {
					return nil
				}
			}

			resp := svc.Update(cmd.Context(), id, patch)
			return result(a, resp, func(v T) error {
				if diff {
					a.out.Line("%s", resp.Message)
					return nil
				}
				return render.Item(a.out, v)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON patch, - for stdin (required)")
	cmd.Flags().BoolVar(&diff, "diff", false, "show a diff of the change before applying it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the diff without applying it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newDeleteCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			return message(a, e.write(a.svc).SoftDelete(cmd.Context(), args[0]))
		},
	}
}

func newRestoreCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft deleted record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := e.write(a.svc).Restore(cmd.Context(), args[0])
			return result(a, resp, func(v T) error {
				return render.Item(a.out, v)
			})
		},
	}
}

func newPurgeCmd[T render.Tabular, C, U, F any](a *app, e entity[T, C, U, F]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <id>",
		Short: "Permanently delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("purge cannot be undone, pass --yes to confirm")
			}
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			return message(a, e.write(a.svc).ForceDelete(cmd.Context(), args[0]))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm permanent deletion")

	return cmd
}

func newActionCmd[T render.Tabular](a *app, act action[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   act.use + " <id>",
		Short: act.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := act.run(cmd, a.svc, args[0])
			return result(a, resp, func(v T) error {
				a.out.Line("%s", resp.Message)
				return render.Item(a.out, v)
			})
		},
	}
	if act.setup != nil {
		act.setup(cmd)
	}
	return cmd
}

func simpleAction[T any](use, short string, fn func(s *services.Services) func(context.Context, string) *envelope.Response[T]) action[T] {
	return action[T]{
		use:   use,
		short: short,
		run: func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[T] {
			return fn(s)(cmd.Context(), id)
		},
	}
}

func withdrawAction() action[models.Enrollment] {
	var reason string
	return action[models.Enrollment]{
		use:   "withdraw",
		short: "Withdraw a student from the cohort",
		setup: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&reason, "reason", "", "withdrawal reason")
		},
		run: func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[models.Enrollment] {
			return s.Enrollments.Withdraw(cmd.Context(), id, reason)
		},
	}
}

func convertAction() action[models.Enquiry] {
	var cohortID string
	return action[models.Enquiry]{
		use:   "convert",
		short: "Convert an enquiry into a student",
		setup: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&cohortID, "cohort", "", "also enroll the new student into this cohort")
		},
		run: func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[models.Enquiry] {
			return s.Enquiries.Convert(cmd.Context(), id, cohortID)
		},
	}
}

func assignAction() action[models.Enquiry] {
	var employeeID string
	return action[models.Enquiry]{
		use:   "assign",
		short: "Assign an enquiry to an employee",
		setup: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&employeeID, "employee", "", "employee id (required)")
			_ = cmd.MarkFlagRequired("employee")
		},
		run: func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[models.Enquiry] {
			return s.Enquiries.Assign(cmd.Context(), id, employeeID)
		},
	}
}

func refundAction() action[models.Payment] {
	var (
		amount float64
		reason string
	)
	return action[models.Payment]{
		use:   "refund",
		short: "Refund a completed payment",
		setup: func(cmd *cobra.Command) {
			cmd.Flags().Float64Var(&amount, "amount", 0, "amount to refund (default the remaining balance)")
			cmd.Flags().StringVar(&reason, "reason", "", "refund reason (required)")
			_ = cmd.MarkFlagRequired("reason")
		},
		run: func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[models.Payment] {
			req := models.RefundPaymentRequest{Reason: reason}
			if cmd.Flags().Changed("amount") {
				req.Amount = &amount
			}
			return s.Payments.Refund(cmd.Context(), id, req)
		},
	}
}

func assignPermissionsAction() action[models.Role] {
	var ids []string
	return action[models.Role]{
		use:   "assign-permissions",
		short: "Replace the permissions granted by a role",
		setup: func(cmd *cobra.Command) {
			cmd.Flags().StringSliceVar(&ids, "permission", nil, "permission id (repeatable or comma separated)")
			_ = cmd.MarkFlagRequired("permission")
		},
		run: func(cmd *cobra.Command, s *services.Services, id string) *envelope.Response[models.Role] {
			return s.Roles.AssignPermissions(cmd.Context(), id, ids)
		},
	}
}

func newRolePermissionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions <id>",
		Short: "List the permissions granted by a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := a.svc.Roles.Permissions(cmd.Context(), args[0])
			return result(a, resp, func(perms []models.Permission) error {
				return render.List(a.out, perms)
			})
		},
	}
}

// decodeFile reads a JSON body from path, or stdin when path is "-".
// Unknown fields are rejected so typos do not turn into silent no-ops.
func decodeFile(cmd *cobra.Command, path string, dst any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open body file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// previewPatch diffs the current record against the record with patch applied.
func previewPatch(name string, current, patch any) (string, error) {
	before, err := render.Merge(current, nil)
	if err != nil {
		return "", err
	}
	after, err := render.Merge(current, patch)
	if err != nil {
		return "", err
	}
	return render.Diff(name, before, after)
}
