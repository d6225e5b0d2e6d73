package dbc

// Global is the powertrain/camera table of 2017+ global platform vehicles.
var Global = New("subaru_global_2017", ChecksumSubaru, []Message{
	{Name: "Throttle", Address: 0x40, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 4},
		{Name: "Engine_RPM", StartBit: 16, Size: 12},
		{Name: "Signal2", StartBit: 28, Size: 4},
		{Name: "Throttle_Pedal", StartBit: 32, Size: 8},
		{Name: "Throttle_Cruise", StartBit: 40, Size: 8},
		{Name: "Throttle_Combo", StartBit: 48, Size: 8},
		{Name: "Signal3", StartBit: 56, Size: 4},
		{Name: "Off_Accel", StartBit: 60, Size: 4},
	}},
	{Name: "Steering_Torque", Address: 0x119, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 4},
		{Name: "Steer_Torque_Sensor", StartBit: 16, Size: 11, Signed: true, Factor: -1},
		{Name: "Steer_Error_1", StartBit: 27, Size: 1},
		{Name: "Signal2", StartBit: 28, Size: 1},
		{Name: "Steer_Warning", StartBit: 29, Size: 1},
		{Name: "Signal3", StartBit: 30, Size: 2},
		{Name: "Steer_Torque_Output", StartBit: 32, Size: 11, Signed: true, Factor: -1},
		{Name: "Signal4", StartBit: 43, Size: 5},
		{Name: "Steering_Angle", StartBit: 48, Size: 16, Signed: true, Factor: -0.0217},
	}},
	{Name: "ES_LKAS", Address: 0x122, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 4},
		{Name: "LKAS_Output", StartBit: 16, Size: 13, Signed: true, Factor: -1},
		{Name: "LKAS_Request", StartBit: 29, Size: 1},
		{Name: "Signal2", StartBit: 30, Size: 1},
		{Name: "SET_1", StartBit: 31, Size: 1},
		{Name: "Signal3", StartBit: 32, Size: 32},
	}},
	{Name: "ES_Distance", Address: 0x221, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 3},
		{Name: "Cruise_Fault", StartBit: 15, Size: 1},
		{Name: "Cruise_Throttle", StartBit: 16, Size: 12},
		{Name: "Signal2", StartBit: 28, Size: 4},
		{Name: "Car_Follow", StartBit: 32, Size: 1},
		{Name: "Signal3", StartBit: 33, Size: 3},
		{Name: "Cruise_Brake_Active", StartBit: 36, Size: 1},
		{Name: "Distance_Swap", StartBit: 37, Size: 1},
		{Name: "Cruise_EPB", StartBit: 38, Size: 1},
		{Name: "Signal4", StartBit: 39, Size: 1},
		{Name: "Close_Distance", StartBit: 40, Size: 8},
		{Name: "Signal5", StartBit: 48, Size: 1},
		{Name: "Cruise_Cancel", StartBit: 49, Size: 1},
		{Name: "Cruise_Set", StartBit: 50, Size: 1},
		{Name: "Cruise_Resume", StartBit: 51, Size: 1},
		{Name: "Signal6", StartBit: 52, Size: 12},
	}},
	{Name: "CruiseControl", Address: 0x240, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 28},
		{Name: "Cruise_On", StartBit: 40, Size: 1},
		{Name: "Cruise_Activated", StartBit: 41, Size: 1},
		{Name: "Signal2", StartBit: 42, Size: 22},
	}},
	{Name: "ES_DashStatus", Address: 0x321, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 4},
		{Name: "Far_Distance", StartBit: 16, Size: 4},
		{Name: "Signal2", StartBit: 20, Size: 4},
		{Name: "Cruise_Set_Speed", StartBit: 24, Size: 8},
		{Name: "Signal3", StartBit: 32, Size: 4},
		{Name: "Not_Ready_Startup", StartBit: 36, Size: 1},
		{Name: "Cruise_Activated", StartBit: 37, Size: 1},
		{Name: "Cruise_Disengaged", StartBit: 38, Size: 1},
		{Name: "Signal4", StartBit: 39, Size: 5},
		{Name: "Car_Follow", StartBit: 44, Size: 1},
		{Name: "Signal5", StartBit: 45, Size: 9},
		{Name: "Cruise_State", StartBit: 54, Size: 2},
		{Name: "Signal6", StartBit: 56, Size: 8},
	}},
	{Name: "ES_LKAS_State", Address: 0x322, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Keep_Hands_On_Wheel", StartBit: 12, Size: 1},
		{Name: "Empty_Box", StartBit: 13, Size: 1},
		{Name: "Signal1", StartBit: 14, Size: 2},
		{Name: "LKAS_ACTIVE", StartBit: 16, Size: 1},
		{Name: "Signal2", StartBit: 17, Size: 5},
		{Name: "Backward_Speed_Limit_Menu", StartBit: 22, Size: 1},
		{Name: "LKAS_ENABLE_3", StartBit: 23, Size: 1},
		{Name: "LKAS_Left_Line_Light_Blink", StartBit: 24, Size: 1},
		{Name: "LKAS_ENABLE_2", StartBit: 25, Size: 1},
		{Name: "LKAS_Right_Line_Light_Blink", StartBit: 26, Size: 1},
		{Name: "LKAS_Left_Line_Visible", StartBit: 27, Size: 1},
		{Name: "LKAS_Left_Line_Green", StartBit: 28, Size: 1},
		{Name: "LKAS_Right_Line_Visible", StartBit: 29, Size: 1},
		{Name: "LKAS_Right_Line_Green", StartBit: 30, Size: 1},
		{Name: "Signal3", StartBit: 31, Size: 1},
		{Name: "LKAS_Alert", StartBit: 32, Size: 5},
		{Name: "Signal4", StartBit: 37, Size: 27},
	}},
	{Name: "Dashlights", Address: 0x390, Size: 8, Signals: []Signal{
		{Name: "Checksum", StartBit: 0, Size: 8},
		{Name: "Counter", StartBit: 8, Size: 4},
		{Name: "Signal1", StartBit: 12, Size: 32},
		{Name: "STOP_START_STATE", StartBit: 44, Size: 2},
		{Name: "Signal2", StartBit: 46, Size: 8},
		{Name: "STOP_START", StartBit: 54, Size: 1},
		{Name: "Signal3", StartBit: 55, Size: 9},
	}},
})

// PreGlobal is the table of pre-2017 EyeSight vehicles. Counters are three bits
// and the checksum sits in the last byte.
var PreGlobal = New("subaru_outback_2015_eyesight", ChecksumSubaruPreGlobal, []Message{
	{Name: "Throttle", Address: 0x140, Size: 8, Signals: []Signal{
		{Name: "Throttle_Pedal", StartBit: 0, Size: 8},
		{Name: "Signal1", StartBit: 8, Size: 8},
		{Name: "Engine_RPM", StartBit: 16, Size: 14},
		{Name: "Counter", StartBit: 48, Size: 3},
	}},
	{Name: "ES_CruiseThrottle", Address: 0x144, Size: 8, Signals: []Signal{
		{Name: "Throttle_Cruise", StartBit: 0, Size: 12},
		{Name: "Signal1", StartBit: 12, Size: 4},
		{Name: "Cruise_Activatedish", StartBit: 16, Size: 1},
		{Name: "Signal2", StartBit: 17, Size: 15},
		{Name: "Cruise_Button", StartBit: 32, Size: 3},
		{Name: "Signal3", StartBit: 35, Size: 13},
		{Name: "Counter", StartBit: 48, Size: 3},
		{Name: "Signal4", StartBit: 51, Size: 5},
		{Name: "Checksum", StartBit: 56, Size: 8},
	}},
	{Name: "ES_LKAS", Address: 0x164, Size: 8, Signals: []Signal{
		{Name: "LKAS_Command", StartBit: 0, Size: 13, Signed: true},
		{Name: "Signal1", StartBit: 13, Size: 11},
		{Name: "LKAS_Active", StartBit: 24, Size: 1},
		{Name: "Signal2", StartBit: 25, Size: 23},
		{Name: "Counter", StartBit: 48, Size: 3},
		{Name: "Signal3", StartBit: 51, Size: 5},
		{Name: "Checksum", StartBit: 56, Size: 8},
	}},
	{Name: "ES_Distance", Address: 0x220, Size: 8, Signals: []Signal{
		{Name: "Signal1", StartBit: 0, Size: 37},
		{Name: "Distance_Swap", StartBit: 37, Size: 1},
		{Name: "Signal2", StartBit: 38, Size: 2},
		{Name: "Close_Distance", StartBit: 40, Size: 8},
		{Name: "Counter", StartBit: 48, Size: 3},
		{Name: "Signal3", StartBit: 51, Size: 5},
		{Name: "Checksum", StartBit: 56, Size: 8},
	}},
	{Name: "CruiseControl", Address: 0x241, Size: 8, Signals: []Signal{
		{Name: "Signal1", StartBit: 0, Size: 40},
		{Name: "Cruise_On", StartBit: 40, Size: 1},
		{Name: "Cruise_Activated", StartBit: 41, Size: 1},
		{Name: "Signal2", StartBit: 42, Size: 6},
		{Name: "Counter", StartBit: 48, Size: 3},
	}},
	{Name: "ES_DashStatus", Address: 0x324, Size: 8, Signals: []Signal{
		{Name: "Signal1", StartBit: 0, Size: 16},
		{Name: "Far_Distance", StartBit: 16, Size: 4},
		{Name: "Signal2", StartBit: 20, Size: 4},
		{Name: "Cruise_Set_Speed", StartBit: 24, Size: 8},
		{Name: "Signal3", StartBit: 32, Size: 4},
		{Name: "Not_Ready_Startup", StartBit: 36, Size: 1},
		{Name: "Signal4", StartBit: 37, Size: 7},
		{Name: "Car_Follow", StartBit: 44, Size: 1},
		{Name: "Signal5", StartBit: 45, Size: 3},
		{Name: "Counter", StartBit: 48, Size: 3},
		{Name: "Signal6", StartBit: 51, Size: 3},
		{Name: "Cruise_State", StartBit: 54, Size: 2},
		{Name: "Checksum", StartBit: 56, Size: 8},
	}},
	{Name: "Steering_Torque", Address: 0x371, Size: 8, Signals: []Signal{
		{Name: "Signal1", StartBit: 0, Size: 16},
		{Name: "Steer_Torque_Sensor", StartBit: 16, Size: 11, Signed: true, Factor: -1},
		{Name: "Steer_Warning", StartBit: 27, Size: 1},
		{Name: "Signal2", StartBit: 28, Size: 20},
		{Name: "Counter", StartBit: 48, Size: 3},
	}},
})
