package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/config"
	"github.com/rsharma-dev/inventra/pkg/database"
)

var sampleProducts = []models.Product{
	{
		Name:        "Laptop Pro",
		Description: "High-performance laptop for professionals",
		Price:       999.99,
		Category:    models.CategoryElectronics,
		Stock:       10,
		Status:      models.StatusActive,
	},
	{
		Name:        "Wireless Headphones",
		Description: "Premium noise-cancelling headphones",
		Price:       199.99,
		Category:    models.CategoryElectronics,
		Stock:       25,
		Status:      models.StatusActive,
	},
	{
		Name:        "Organic Coffee Beans",
		Description: "Premium arabica coffee beans",
		Price:       24.99,
		Category:    models.CategoryFood,
		Stock:       50,
		Status:      models.StatusActive,
	},
	{
		Name:        "Yoga Mat",
		Description: "Non-slip exercise yoga mat",
		Price:       29.99,
		Category:    models.CategorySports,
		Stock:       30,
		Status:      models.StatusActive,
	},
	{
		Name:        "Programming Book",
		Description: "Learn to code with this comprehensive guide",
		Price:       39.99,
		Category:    models.CategoryBooks,
		Stock:       15,
		Status:      models.StatusActive,
	},
}

// inventra db:seed — insert sample products into an empty catalogue.
var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed sample products (no-op when the catalogue is non-empty)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		ctx := context.Background()

		db, err := database.Connect(ctx)
		if err != nil {
			return err
		}
		defer db.Close(context.Background())

		repo := repositories.NewMongoProductRepository(db)
		existing, err := repo.CountAll(ctx)
		if err != nil {
			return err
		}
		if existing > 0 {
			fmt.Printf("Catalogue already has %d products, nothing to do.\n", existing)
			return nil
		}

		for i := range sampleProducts {
			p := sampleProducts[i]
			if err := repo.Create(ctx, &p); err != nil {
				return err
			}
			fmt.Printf("%d. %s - %.2f - %s\n", i+1, p.Name, p.Price, p.Category)
		}
		fmt.Printf("Added %d sample products.\n", len(sampleProducts))
		return nil
	},
}
