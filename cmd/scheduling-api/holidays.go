package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-scheduling-api/internal/repository"
	"github.com/noah-isme/course-scheduling-api/internal/service"
	"github.com/noah-isme/course-scheduling-api/pkg/database"
)

func newHolidaysCmd(rt *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Maintain the holiday calendar",
	}

	var year int
	var country string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Store a country's national holidays for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			country = strings.ToUpper(strings.TrimSpace(country))
			if country == "" {
				country = rt.cfg.Holidays.NationalCountry
			}
			if country == "" {
				return fmt.Errorf("no country given: pass --country or set SCHEDULING_NATIONAL_HOLIDAYS")
			}
			db, err := database.NewPostgres(rt.cfg.Database)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer db.Close() //nolint:errcheck

			svc := service.NewHolidayService(repository.NewHolidayRepository(db), nil, service.HolidayServiceConfig{
				NationalCountry: country,
			}, rt.log)
			n, err := svc.SeedNational(cmd.Context(), year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d %s holidays for %d\n", n, country, year)
			return nil
		},
	}
	seed.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year to seed")
	seed.Flags().StringVar(&country, "country", "", "ISO country code (defaults to SCHEDULING_NATIONAL_HOLIDAYS)")
	cmd.AddCommand(seed)
	return cmd
}
