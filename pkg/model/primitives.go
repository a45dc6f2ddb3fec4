package model

// The primitive entities carry nothing beyond identity and a unique name.

type Species struct{ UserDefine }

type BaitCategory struct{ UserDefine }

type WaterClarity struct{ UserDefine }

type FishingMethod struct{ UserDefine }

type Angler struct{ UserDefine }

func NewSpecies(name string) Species { return Species{NewUserDefine(name)} }

func NewBaitCategory(name string) BaitCategory { return BaitCategory{NewUserDefine(name)} }

func NewWaterClarity(name string) WaterClarity { return WaterClarity{NewUserDefine(name)} }

func NewFishingMethod(name string) FishingMethod { return FishingMethod{NewUserDefine(name)} }

func NewAngler(name string) Angler { return Angler{NewUserDefine(name)} }

func (s Species) Clone(keepID bool) Species { return Species{s.UserDefine.Clone(keepID)} }

func (c BaitCategory) Clone(keepID bool) BaitCategory {
	return BaitCategory{c.UserDefine.Clone(keepID)}
}

func (w WaterClarity) Clone(keepID bool) WaterClarity {
	return WaterClarity{w.UserDefine.Clone(keepID)}
}

func (m FishingMethod) Clone(keepID bool) FishingMethod {
	return FishingMethod{m.UserDefine.Clone(keepID)}
}

func (a Angler) Clone(keepID bool) Angler { return Angler{a.UserDefine.Clone(keepID)} }
