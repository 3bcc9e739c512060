package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/reviewpulse/trackserver/cmd"
	"github.com/reviewpulse/trackserver/internal/config"
	customerrors "github.com/reviewpulse/trackserver/internal/errors"
	"github.com/reviewpulse/trackserver/internal/repository"
	"github.com/reviewpulse/trackserver/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsCmd represents the 'stats' command
var StatsCmd = &cobra.Command{
	Use:   "stats [tracking-uuid]",
	Short: "Show click state and event count for a tracking identifier",
	Long:  `Prints the status, first-click timestamp and recorded event count for the given tracking UUID.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(cobraCmd *cobra.Command, args []string) {
	trackingUUID := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to obtain underlying SQL database: %v", err)
	}
	defer sqlDB.Close()

	requestRepo := repository.NewReviewRequestRepository(db)
	eventRepo := repository.NewEventRepository(db)
	trackingService := services.NewTrackingService(requestRepo, eventRepo, nil, zap.NewNop())

	request, totalEvents, err := trackingService.GetRequestStats(trackingUUID)
	if err != nil {
		if errors.Is(err, customerrors.ErrTrackingIDNotFound) {
			fmt.Printf("Error: Tracking UUID '%s' not found\n", trackingUUID)
			os.Exit(1)
		}
		log.Fatalf("Failed to retrieve stats: %v", err)
	}

	fmt.Printf("Tracking UUID: %s\n", request.TrackingUUID)
	fmt.Printf("Business:      %s\n", request.Business.Name)
	fmt.Printf("Customer:      %s %s <%s>\n", request.Customer.FirstName, request.Customer.LastName, request.Customer.Email)
	fmt.Printf("Status:        %s\n", request.Status)
	fmt.Printf("Active:        %t\n", request.IsActive)
	if request.ClickedAt != nil {
		fmt.Printf("First click:   %s\n", request.ClickedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Printf("First click:   never\n")
	}
	fmt.Printf("Total events:  %d\n", totalEvents)
}
