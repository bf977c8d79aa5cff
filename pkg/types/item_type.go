package types

// ItemType identifies what kind of record an item file holds. The store
// encodes these as integers in the type_ property.
type ItemType int

// Item type codes as written by the store.
const (
	ItemUndefined          ItemType = 0
	ItemNote               ItemType = 1
	ItemFolder             ItemType = 2
	ItemSetting            ItemType = 3
	ItemResource           ItemType = 4
	ItemTag                ItemType = 5
	ItemNoteTag            ItemType = 6
	ItemSearch             ItemType = 7
	ItemAlarm              ItemType = 8
	ItemMasterKey          ItemType = 9
	ItemItemChange         ItemType = 10
	ItemNoteResource       ItemType = 11
	ItemResourceLocalState ItemType = 12
	ItemRevision           ItemType = 13
	ItemMigration          ItemType = 14
	ItemSmartFilter        ItemType = 15
	ItemCommand            ItemType = 16
)

// itemTypeNames maps codes to display names.
var itemTypeNames = map[ItemType]string{
	ItemUndefined:          "undefined",
	ItemNote:               "note",
	ItemFolder:             "folder",
	ItemSetting:            "setting",
	ItemResource:           "resource",
	ItemTag:                "tag",
	ItemNoteTag:            "note_tag",
	ItemSearch:             "search",
	ItemAlarm:              "alarm",
	ItemMasterKey:          "master_key",
	ItemItemChange:         "item_change",
	ItemNoteResource:       "note_resource",
	ItemResourceLocalState: "resource_local_state",
	ItemRevision:           "revision",
	ItemMigration:          "migration",
	ItemSmartFilter:        "smart_filter",
	ItemCommand:            "command",
}

// ItemTypeFromCode maps a numeric type_ code to an ItemType. Unknown codes
// map to ItemUndefined, never to a widened value.
func ItemTypeFromCode(code int) ItemType {
	t := ItemType(code)
	if _, ok := itemTypeNames[t]; !ok || t == ItemUndefined {
		return ItemUndefined
	}
	return t
}

// String returns the display name of the item type.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return "undefined"
}
