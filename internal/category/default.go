package category

// Default returns the built-in registry used when no registry file is
// configured. The set mirrors the historical mod cabinet layout so the
// sorter can run against an existing corpus out of the box.
func Default() *Registry {
	r, err := FromCategories([]Category{
		{ID: "major-pack", Title: "Major Overhauls and Mod Packs"},

		{ID: "mode-balance", Title: "General Gameplay and Balance: Game Mode Balance"},
		{ID: "scaling", Title: "General Gameplay and Balance: Scaling Changes"},
		{ID: "element", Title: "General Gameplay and Balance: Elements and Damage Types"},
		{ID: "quest-changes", Title: "General Gameplay and Balance: Quest Changes"},
		{ID: "economy", Title: "General Gameplay and Balance: Economy Changes"},
		{ID: "event", Title: "General Gameplay and Balance: Timed Event Changes"},
		{ID: "gameplay", Title: "General Gameplay and Balance: Other Gameplay Changes"},

		{ID: "char-overhaul", Title: "Characters and Skills: Full Character Overhauls"},
		{ID: "skill-system", Title: "Characters and Skills: Skill System Changes"},
		{ID: "char-other", Title: "Characters and Skills: Other Character Changes"},

		{ID: "gear-general", Title: "Weapons/Gear: General"},
		{ID: "gear-brand", Title: "Weapons/Gear: Brand Overhauls"},
		{ID: "gear-pack", Title: "Weapons/Gear: Packs"},
		{ID: "gear-ar", Title: "Weapons/Gear: Assault Rifles"},
		{ID: "gear-pistol", Title: "Weapons/Gear: Pistols"},
		{ID: "gear-heavy", Title: "Weapons/Gear: Heavy Weapons"},
		{ID: "gear-shotgun", Title: "Weapons/Gear: Shotguns"},
		{ID: "gear-smg", Title: "Weapons/Gear: SMGs"},
		{ID: "gear-sniper", Title: "Weapons/Gear: Sniper Rifles"},
		{ID: "gear-grenade", Title: "Weapons/Gear: Grenade Mods"},
		{ID: "gear-shield", Title: "Weapons/Gear: Shields"},

		{ID: "loot-system", Title: "Farming and Looting: Loot System Overhauls"},
		{ID: "enemy-drops", Title: "Farming and Looting: Enemy Drop Changes"},
		{ID: "chests", Title: "Farming and Looting: Chest and Container Changes"},
		{ID: "vendor", Title: "Farming and Looting: Vending Machines"},
		{ID: "quest-rewards", Title: "Farming and Looting: Quest Rewards"},
		{ID: "loot-sources", Title: "Farming and Looting: Other Loot Sources"},

		{ID: "spawns", Title: "Enemies: Enemy Spawns"},
		{ID: "enemy", Title: "Enemies: Enemy Changes"},

		{ID: "vehicle", Title: "Maps and Travel: Vehicles"},
		{ID: "fast-travel", Title: "Maps and Travel: Fast Travel"},
		{ID: "maps", Title: "Maps and Travel: Map Alterations"},

		{ID: "av", Title: "Audio and Visual: General A/V Settings"},
		{ID: "ui", Title: "Audio and Visual: UI Changes"},
		{ID: "av-gear", Title: "Audio and Visual: Weapon and Gear Visuals"},
		{ID: "av-char", Title: "Audio and Visual: Character Visuals"},
		{ID: "audio", Title: "Audio and Visual: Audio Changes"},
		{ID: "text", Title: "Audio and Visual: Text Changes"},

		{ID: "qol", Title: "Quality of Life: General QoL"},
		{ID: "qol-ui", Title: "Quality of Life: UI QoL Changes"},
		{ID: "inventory", Title: "Quality of Life: Inventory/Bank Changes"},

		{ID: "bugfix", Title: "Other: Bugfixes"},
		{ID: "cheat", Title: "Other: Cheat Mods"},
		{ID: "modpack", Title: "Other: Mod Packs"},
		{ID: "translation", Title: "Other: Translations"},
		{ID: "joke", Title: "Other: Joke Mods"},
		{ID: "resource", Title: "Other: Resource Mods"},
	})
	if err != nil {
		// The built-in table is static; a duplicate here is a programming error.
		panic(err)
	}
	return r
}
