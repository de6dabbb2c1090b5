package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	equipmentpg "github.com/cirruslabs-it/asset-inventory/internal/equipment/postgres"
)

// fixSerialsCmd repairs duplicated serial numbers left behind by imports
// that predate the unique index. The oldest record keeps the serial;
// later records get a _DUPLICATE_<n> suffix so the index can be applied.
var fixSerialsCmd = &cobra.Command{
	Use:   "fix-serials",
	Short: "Report or repair duplicated equipment serial numbers",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to initialize gorm: %v", err)
		}

		repo := equipmentpg.NewEquipmentRepository(gormDB)
		dups, err := repo.SerialDuplicates()
		if err != nil {
			log.Fatalf("failed to scan for duplicates: %v", err)
		}

		if len(dups) == 0 {
			fmt.Println("No duplicated serial numbers found")
			return
		}

		for _, dup := range dups {
			fmt.Printf("serial %q is shared by %d records: %v\n", dup.SerialNumber, len(dup.IDs), dup.IDs)
			if !applyFix {
				continue
			}

			// The first id is the oldest record and keeps the serial.
			for n, id := range dup.IDs[1:] {
				renamed := fmt.Sprintf("%s_DUPLICATE_%d", dup.SerialNumber, n+1)
				if err := repo.UpdateSerialNumber(id, renamed); err != nil {
					log.Fatalf("failed to rename serial for record %d: %v", id, err)
				}
				fmt.Printf("  record %d renamed to %q\n", id, renamed)
			}
		}

		if !applyFix {
			fmt.Println("Run again with --apply to rename duplicates")
		}
	},
}
