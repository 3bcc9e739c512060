package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/reviewpulse/trackserver/cmd"
	"github.com/reviewpulse/trackserver/internal/config"
	"github.com/reviewpulse/trackserver/internal/models"
	"github.com/reviewpulse/trackserver/internal/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	customerFirstName string
	customerLastName  string
	customerEmail     string
	businessName      string
	googleReviewURL   string
	businessWebsite   string
	reviewURLOverride string
)

// CreateCmd represents the 'create' command. It issues a review request
// with a fresh tracking UUID and prints the resulting tracking link. In
// production the request-issuing process does this; the command exists for
// local testing and manual sends.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issues a review request and prints its tracking link.",
	Long: `Creates a customer, a business and a review request with a newly
generated tracking UUID, then prints the link to send to the customer.

Example:
  trackserver create --first-name=Ada --email=ada@example.com --business="Ada's Bakery"`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		if customerEmail == "" || businessName == "" {
			fmt.Println("Error: --email and --business flags are required")
			os.Exit(1)
		}

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

		customer := models.Customer{
			FirstName: customerFirstName,
			LastName:  customerLastName,
			Email:     customerEmail,
		}
		if err := db.Create(&customer).Error; err != nil {
			log.Fatalf("Failed to create customer: %v", err)
		}

		business := models.Business{
			Name:            businessName,
			GoogleReviewURL: googleReviewURL,
			Website:         businessWebsite,
		}
		if err := db.Create(&business).Error; err != nil {
			log.Fatalf("Failed to create business: %v", err)
		}

		requestRepo := repository.NewReviewRequestRepository(db)
		request := &models.ReviewRequest{
			TrackingUUID: uuid.NewString(),
			Status:       models.StatusPending,
			IsActive:     true,
			ReviewURL:    reviewURLOverride,
			CustomerID:   customer.ID,
			BusinessID:   business.ID,
		}
		if err := requestRepo.Create(request); err != nil {
			log.Fatalf("Failed to create review request: %v", err)
		}

		fmt.Printf("Review request created:\n")
		fmt.Printf("Tracking UUID: %s\n", request.TrackingUUID)
		fmt.Printf("Tracking link: %s/%s\n", cfg.Server.BaseURL, request.TrackingUUID)
	},
}

func init() {
	CreateCmd.Flags().StringVar(&customerFirstName, "first-name", "", "Customer first name")
	CreateCmd.Flags().StringVar(&customerLastName, "last-name", "", "Customer last name")
	CreateCmd.Flags().StringVar(&customerEmail, "email", "", "Customer email address")
	CreateCmd.Flags().StringVar(&businessName, "business", "", "Business name")
	CreateCmd.Flags().StringVar(&googleReviewURL, "google-review-url", "", "Business Google review URL")
	CreateCmd.Flags().StringVar(&businessWebsite, "website", "", "Business website")
	CreateCmd.Flags().StringVar(&reviewURLOverride, "review-url", "", "Per-request review URL override")

	CreateCmd.MarkFlagRequired("email")
	CreateCmd.MarkFlagRequired("business")

	cmd.RootCmd.AddCommand(CreateCmd)
}
