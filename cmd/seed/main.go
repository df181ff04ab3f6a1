package main

import (
	"fmt"
	"log"
	"os"

	"github.com/reviewboost/reviewboost-backend/config"
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/internal/db"
	"github.com/reviewboost/reviewboost-backend/pkg/gmaps"
	"github.com/reviewboost/reviewboost-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Bulk onboarding tool: imports businesses from an xlsx workbook exported by
// the sales team. Columns: owner email, name, category, phone, review URL.
// Rows with an unknown owner or an invalid review URL are reported and
// skipped.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.App.AdminAccountEmail); err != nil {
		log.Fatal("Failed to migrate:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())

	rows, err := readRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Rows to import: %d\n", len(rows))
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported, skipped := 0, 0
	for i, row := range rows {
		owner, err := userRepo.FindByEmail(row.OwnerEmail)
		if err != nil {
			fmt.Printf("row %d: unknown owner %s, skipping\n", i+2, row.OwnerEmail)
			skipped++
			continue
		}

		normalized, err := gmaps.Normalize(row.ReviewURL)
		if err != nil {
			fmt.Printf("row %d: invalid review URL %q, skipping\n", i+2, row.ReviewURL)
			skipped++
			continue
		}

		if existing, err := businessRepo.FindActiveByNormalizedURL(nil, normalized); err == nil {
			fmt.Printf("row %d: URL already held by business %d, skipping\n", i+2, existing.ID)
			skipped++
			continue
		}

		business := &model.Business{
			UserID:        owner.ID,
			Name:          row.Name,
			Category:      row.Category,
			Phone:         row.Phone,
			ReviewURL:     row.ReviewURL,
			NormalizedURL: normalized,
			FunnelSlug:    util.GenerateFunnelSlug(),
			Status:        model.StatusActive,
		}
		if err := businessRepo.Create(nil, business); err != nil {
			fmt.Printf("row %d: create failed: %v\n", i+2, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Printf("Done. Imported %d, skipped %d.\n", imported, skipped)
}

type importRow struct {
	OwnerEmail string
	Name       string
	Category   string
	Phone      string
	ReviewURL  string
}

func readRows(path string) ([]importRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var rows []importRow
	for i, cells := range raw {
		if i == 0 {
			// header row
			continue
		}
		if len(cells) < 5 || cells[0] == "" {
			continue
		}
		rows = append(rows, importRow{
			OwnerEmail: cells[0],
			Name:       cells[1],
			Category:   cells[2],
			Phone:      cells[3],
			ReviewURL:  cells[4],
		})
	}
	return rows, nil
}
