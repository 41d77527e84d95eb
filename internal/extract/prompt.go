package extract

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/theirongolddev/moneymate/internal/model"
)

const schemaName = "receipt"

const receiptPrompt = `You are an expert at extracting information from receipts. Analyze the receipt and extract structured information in the required format.

Follow these steps:

1. Scan the entire receipt to identify:
   - Company name/header
   - Date of purchase
   - All individual items and their prices

2. For each item, determine:
   - The exact item name as written
   - The precise price as a number, without currency symbols
   - The category, which must be one of: "household", "food", "transportation", "entertainment", "shopping", or "other"

3. Verify that:
   - All prices are numbers
   - The date follows YYYY-MM-DD format
   - Each item uses one of the allowed categories

Example input:
Receipt from Walmart
2024-01-15
Banana $1.99
Light bulbs $5.99
Movie ticket $12.99
Toothpaste $3.99
Gas $45.00
T-shirt $15.99

Example output:
{"company":"Walmart","date":"2024-01-15","items":[
  {"name":"Banana","price":1.99,"category":"food"},
  {"name":"Light bulbs","price":5.99,"category":"household"},
  {"name":"Movie ticket","price":12.99,"category":"entertainment"},
  {"name":"Toothpaste","price":3.99,"category":"household"},
  {"name":"Gas","price":45.00,"category":"transportation"},
  {"name":"T-shirt","price":15.99,"category":"shopping"}
]}

Only use the allowed categories. If you are unsure about a category, use "other".`

// receiptSchema constrains model output to the receipt shape. Strict mode
// requires every property listed and no additional properties.
func receiptSchema() *jsonschema.Definition {
	cats := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		cats = append(cats, c.String())
	}

	item := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"name":     {Type: jsonschema.String, Description: "Item name as printed"},
			"price":    {Type: jsonschema.Number, Description: "Item price"},
			"category": {Type: jsonschema.String, Enum: cats},
		},
		Required:             []string{"name", "price", "category"},
		AdditionalProperties: false,
	}

	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"company": {Type: jsonschema.String, Description: "Vendor name from the receipt header"},
			"date":    {Type: jsonschema.String, Description: "Purchase date, YYYY-MM-DD"},
			"items":   {Type: jsonschema.Array, Items: &item},
		},
		Required:             []string{"company", "date", "items"},
		AdditionalProperties: false,
	}
}
