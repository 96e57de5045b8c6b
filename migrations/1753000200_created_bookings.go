package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		trips, err := app.FindCollectionByNameOrId("trips")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("bookings")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "trip",
				Required:     true,
				CollectionId: trips.Id,
				MaxSelect:    1,
			},
			&core.RelationField{
				Name:          "passenger",
				Required:      true,
				CollectionId:  users.Id,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			&core.TextField{
				Name:     "passenger_phone",
				Required: true,
				Max:      20,
			},
			&core.NumberField{
				Name:     "seats_booked",
				Required: true,
				Min:      types.Pointer(1.0),
				OnlyInt:  true,
			},
			&core.NumberField{
				Name: "total_price",
				Min:  types.Pointer(0.0),
			},
			&core.TextField{
				Name: "note",
				Max:  500,
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				Values:    []string{"PENDING", "CONFIRMED", "REJECTED"},
				MaxSelect: 1,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		// Passengers see their own rows; drivers see rows on their own
		// trips; managers and admins see everything.
		visibleRule := `passenger = @request.auth.id || @request.auth.role = "admin" || @request.auth.role = "manager" || (@request.auth.role = "driver" && trip.driver = @request.auth.id)`
		collection.ListRule = types.Pointer(visibleRule)
		collection.ViewRule = types.Pointer(visibleRule)
		collection.CreateRule = types.Pointer(`@request.auth.id != "" && passenger = @request.auth.id`)
		collection.UpdateRule = types.Pointer(
			`@request.auth.role = "admin" || @request.auth.role = "manager" || (@request.auth.role = "driver" && trip.driver = @request.auth.id)`)
		collection.DeleteRule = types.Pointer(
			`(passenger = @request.auth.id && (status = "PENDING" || status = "REJECTED")) || @request.auth.role = "admin" || @request.auth.role = "manager" || (@request.auth.role = "driver" && trip.driver = @request.auth.id)`)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("bookings")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
