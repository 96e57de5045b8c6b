package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection.Fields.Add(
			&core.TextField{
				Name: "phone",
				Max:  20,
			},
			&core.SelectField{
				Name:      "role",
				Values:    []string{"admin", "manager", "driver", "user"},
				MaxSelect: 1,
			},
			&core.TextField{
				Name: "user_code",
				Max:  12,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection.Fields.RemoveByName("phone")
		collection.Fields.RemoveByName("role")
		collection.Fields.RemoveByName("user_code")

		return app.Save(collection)
	})
}
