package openrouter

const extractionPrompt = `Extract ALL menu items from this image with names, descriptions, and pricing.
Return ONLY JSON:
{
  "restaurant_name": "Restaurant name",
  "menu_sections": [
    {
      "section_name": "Section name",
      "items": [
        {
          "name": "Item name",
          "description": "Description",
          "pricing": [
            {"size": "Full", "price": "360", "currency": "₹"},
            {"size": "Half", "price": "200", "currency": "₹"}
          ]
        }
      ]
    }
  ]
}`
