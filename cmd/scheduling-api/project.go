package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/internal/service"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	"github.com/noah-isme/course-scheduling-api/pkg/export"
)

// nationalCalendar serves generated national holidays without a database.
type nationalCalendar struct {
	country string
}

func (n nationalCalendar) Between(ctx context.Context, start, end calendar.Date) ([]models.Holiday, error) {
	if n.country == "" || !calendar.SupportsCountry(n.country) {
		return nil, nil
	}
	return calendar.NationalHolidaysBetween(n.country, start, end)
}

type projectOptions struct {
	start        string
	hours        float64
	weekly       int
	classStart   string
	classMinutes int
	national     bool
	format       string
	output       string
}

func newProjectCmd(rt *cliContext) *cobra.Command {
	opts := projectOptions{}
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a course calendar offline",
		Example: `  scheduling-api project --start 2024-01-01 --hours 40 --weekly 2
  scheduling-api project --start 2024-09-02 --hours 60 --weekly 3 --format pdf --output course.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := calendar.ParseISODate(opts.start)
			if err != nil {
				return err
			}
			svc := service.NewCourseScheduleService(nationalCalendar{country: rt.cfg.Holidays.NationalCountry}, service.ProjectionConfig{
				ClassStart:   rt.cfg.Scheduling.ClassStart,
				ClassMinutes: rt.cfg.Scheduling.ClassMinutes,
				MaxWeeks:     rt.cfg.Scheduling.MaxProjectionWeeks,
			}, nil, nil, rt.log)
			req := dto.CourseScheduleRequest{
				StartDate:          start,
				CourseHours:        opts.hours,
				WeeklyClasses:      opts.weekly,
				ClassStart:         opts.classStart,
				ClassMinutes:       opts.classMinutes,
				UseHolidayCalendar: opts.national,
			}

			out := cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return err
				}
				defer f.Close() //nolint:errcheck
				out = f
			}
			return writeProjection(cmd.Context(), svc, req, opts.format, out)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "first class date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&opts.hours, "hours", 0, "total course hours")
	cmd.Flags().IntVar(&opts.weekly, "weekly", 1, "classes per week (1-7)")
	cmd.Flags().StringVar(&opts.classStart, "class-start", "", "class start time HH:MM (defaults to SCHEDULING_CLASS_START)")
	cmd.Flags().IntVar(&opts.classMinutes, "class-minutes", 0, "class length in minutes (defaults to SCHEDULING_CLASS_MINUTES)")
	cmd.Flags().BoolVar(&opts.national, "national-holidays", true, "skip the configured country's national holidays")
	cmd.Flags().StringVar(&opts.format, "format", "json", "json, csv or pdf")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func writeProjection(ctx context.Context, svc *service.CourseScheduleService, req dto.CourseScheduleRequest, format string, out io.Writer) error {
	if format == "json" {
		schedule, err := svc.Compute(ctx, req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(schedule)
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("unsupported format %q: %w", format, err)
	}
	body, err := svc.Export(ctx, req, f)
	if err != nil {
		return err
	}
	_, err = out.Write(body)
	return err
}
