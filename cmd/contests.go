package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kusitms-com/meetupd/internal/db/bunx"
	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/repository"
	"github.com/kusitms-com/meetupd/internal/services/contest"
)

const contestDateLayout = "2006-01-02"

var importFile string

var contestsCmd = &cobra.Command{
	Use:   "contests",
	Short: "Contest maintenance commands",
}

var contestsClosingCmd = &cobra.Command{
	Use:   "closing",
	Short: "List contests whose recruiting ends today",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := bunx.NewDB(ctx, cfg.DatabaseURL, bunx.WithMaxConns(cfg.MaxDBConnections))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		svc := contest.NewService(repository.NewBunContestRepository(db))
		closing, err := svc.ClosingToday(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(closing) == 0 {
			fmt.Fprintln(out, "No contests close today")
			return nil
		}
		for _, c := range closing {
			fmt.Fprintf(out, "%s\t%s\t%s\tteams=%d\n", c.ContestID, c.RecruitEnd.Format(contestDateLayout), c.Title, c.TeamNum)
		}
		return nil
	},
}

// contestRecord is one entry of a contest import file.
type contestRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Types        int    `json:"types"`
	RecruitStart string `json:"recruitStart"`
	RecruitEnd   string `json:"recruitEnd"`
	TeamNum      int    `json:"teamNum"`
	ImageURL     string `json:"imageUrl"`
	Description  string `json:"description"`
}

func (r contestRecord) toModel() (*models.Contest, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, errors.New("title is required")
	}
	if !contest.ValidCategory(r.Types) {
		return nil, fmt.Errorf("unknown contest type %d", r.Types)
	}
	start, err := time.Parse(contestDateLayout, r.RecruitStart)
	if err != nil {
		return nil, fmt.Errorf("invalid recruitStart: %w", err)
	}
	end, err := time.Parse(contestDateLayout, r.RecruitEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid recruitEnd: %w", err)
	}
	if end.Before(start) {
		return nil, errors.New("recruitEnd is before recruitStart")
	}
	return &models.Contest{
		ID:           r.ID,
		Title:        r.Title,
		Company:      r.Company,
		Types:        r.Types,
		RecruitStart: start,
		RecruitEnd:   end,
		TeamNum:      r.TeamNum,
		ImageURL:     r.ImageURL,
		Description:  r.Description,
	}, nil
}

// parseContestRecords decodes and validates an import file.
func parseContestRecords(data []byte) ([]*models.Contest, error) {
	var records []contestRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode contests: %w", err)
	}
	out := make([]*models.Contest, 0, len(records))
	for i, r := range records {
		c, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("contest %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

var contestsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import contests from a JSON file",
	Long: `Reads a JSON array of contests and inserts them. Dates use YYYY-MM-DD.
Entries without an id get a generated UUIDv7; entries whose id already exists are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importFile == "" {
			return fmt.Errorf("--file flag is required")
		}
		data, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", importFile, err)
		}
		contests, err := parseContestRecords(data)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := bunx.NewDB(ctx, cfg.DatabaseURL, bunx.WithMaxConns(cfg.MaxDBConnections))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		repo := repository.NewBunContestRepository(db)
		created, skipped := 0, 0
		for _, c := range contests {
			if err := repo.Create(ctx, c); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					logger.Warn("contest already exists, skipping", "contest_id", c.ID)
					skipped++
					continue
				}
				return fmt.Errorf("import contest %q: %w", c.Title, err)
			}
			created++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contests (%d skipped)\n", created, skipped)
		return nil
	},
}

func init() {
	contestsImportCmd.Flags().StringVar(&importFile, "file", "", "Path to a JSON array of contests")

	rootCmd.AddCommand(contestsCmd)
	contestsCmd.AddCommand(contestsClosingCmd)
	contestsCmd.AddCommand(contestsImportCmd)
}
