package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentRecordValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"intent_id",
			"amount_cents",
			"platform_fee_cents",
			"status",
			"refunded",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"intent_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"amount_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"platform_fee_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"created",
					"captured",
					"failed",
				},
			},

			"refunded": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
