package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"asset_id",
			"renter_id",
			"owner_id",
			"start_time",
			"end_time",
			"duration_class",
			"price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"asset_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"renter_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"duration_class": bson.M{
				"bsonType": "string",
				"enum": []string{
					"6h",
					"24h",
				},
			},

			"price": bson.M{
				"bsonType": "object",
				"required": []string{
					"base_cents",
					"unlock_fee_cents",
					"fees_and_taxes_cents",
					"total_cents",
				},
				"properties": bson.M{
					"base_cents": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"unlock_fee_cents": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"fees_and_taxes_cents": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"total_cents": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
				},
			},

			"confirmation_code": bson.M{
				"bsonType":  "string",
				"minLength": 6,
				"maxLength": 6,
			},

			"code_attempts": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"requested",
					"accepted",
					"active",
					"rejected",
					"completed",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
