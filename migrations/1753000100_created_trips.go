package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

const staffRule = `@request.auth.role = "admin" || @request.auth.role = "manager" || @request.auth.role = "driver"`

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("trips")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "driver",
				Required:     true,
				CollectionId: users.Id,
				MaxSelect:    1,
			},
			&core.TextField{
				Name:     "origin_name",
				Required: true,
				Max:      200,
			},
			&core.TextField{
				Name: "origin_desc",
				Max:  500,
			},
			&core.TextField{
				Name:     "dest_name",
				Required: true,
				Max:      200,
			},
			&core.TextField{
				Name: "dest_desc",
				Max:  500,
			},
			&core.DateField{
				Name:     "departure_time",
				Required: true,
			},
			&core.DateField{
				Name: "arrival_time",
			},
			&core.NumberField{
				Name: "price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name:     "seats",
				Required: true,
				Min:      types.Pointer(1.0),
				OnlyInt:  true,
			},
			&core.NumberField{
				Name:    "available_seats",
				Min:     types.Pointer(0.0),
				OnlyInt: true,
			},
			&core.TextField{
				Name: "vehicle_info",
				Max:  200,
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				Values:    []string{"PREPARING", "FULL", "ON_TRIP", "COMPLETED", "CANCELLED"},
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

		// The marketplace feed is public; writes go through staff only,
		// with drivers limited to their own trips.
		collection.ListRule = types.Pointer("")
		collection.ViewRule = types.Pointer("")
		collection.CreateRule = types.Pointer(staffRule)
		collection.UpdateRule = types.Pointer(
			`@request.auth.role = "admin" || @request.auth.role = "manager" || (@request.auth.role = "driver" && driver = @request.auth.id)`)
		collection.DeleteRule = types.Pointer(
			`@request.auth.role = "admin" || @request.auth.role = "manager"`)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("trips")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
