package validators

import "go.mongodb.org/mongo-driver/bson"

var dayWindowSchema = bson.M{
	"bsonType": "object",
	"required": []string{"open"},
	"properties": bson.M{
		"open": bson.M{
			"bsonType": "bool",
		},
		"open_time": bson.M{
			"bsonType": "string",
			"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
		},
		"close_time": bson.M{
			"bsonType": "string",
			"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
		},
	},
}

var AssetValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"allow_6h",
			"allow_24h",
			"six_hour_price_cents",
			"full_day_price_cents",
			"availability",
			"exclusivity",
			"featured",
			"confirmed",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"allow_6h": bson.M{
				"bsonType": "bool",
			},

			"allow_24h": bson.M{
				"bsonType": "bool",
			},

			"six_hour_price_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"full_day_price_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"availability": bson.M{
				"bsonType": "object",
				"required": []string{
					"sunday",
					"monday",
					"tuesday",
					"wednesday",
					"thursday",
					"friday",
					"saturday",
				},
				"additionalProperties": false,
				"properties": bson.M{
					"sunday":    dayWindowSchema,
					"monday":    dayWindowSchema,
					"tuesday":   dayWindowSchema,
					"wednesday": dayWindowSchema,
					"thursday":  dayWindowSchema,
					"friday":    dayWindowSchema,
					"saturday":  dayWindowSchema,
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"exclusivity": bson.M{
				"bsonType": "string",
				"enum": []string{
					"none",
					"claimed",
					"active",
				},
			},

			"featured": bson.M{
				"bsonType": "bool",
			},

			"confirmed": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
